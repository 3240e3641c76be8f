// Package linkscan searches untrusted documents for a reference to a target
// URL. JSON documents are decoded into a Value tree and every string is
// compared; HTML documents are parsed leniently and every hyperlink-bearing
// attribute is resolved against the document base.
//
// Nothing in this package fetches anything or returns an error for malformed
// content: a document that cannot be understood simply does not link.
package linkscan
