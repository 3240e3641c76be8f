// Package domain holds the entities of the webmention receiver. They carry no
// infrastructure concerns and are shared by the service, storage and API
// layers.
package domain
