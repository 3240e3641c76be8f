package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"webmention/pkg/domain"
	"webmention/pkg/storage"
)

const (
	mentionsTable = "mentions"
)

// AppendMention inserts m as a new row. Rows are never updated, so concurrent
// appends for one target cannot overwrite each other.
func (p *PgSQL) AppendMention(ctx context.Context, m domain.Mention) error {
	if err := storage.Validate(m); err != nil {
		return err
	}

	var row PgMention
	row.FromDomain(m)

	if _, err := p.Builder.Insert(mentionsTable).
		Rows(row).
		Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("could not store mention into pg: %w", err)
	}

	return nil
}

// MentionsByTarget returns the mentions of target ordered by insertion.
func (p *PgSQL) MentionsByTarget(ctx context.Context, target string) ([]domain.Mention, error) {
	var rows []PgMention
	if err := p.Builder.From(mentionsTable).
		Where(goqu.I("target").Eq(target)).
		Order(goqu.I("id").Asc()).
		ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not get mentions by target from pg: %w", err)
	}

	return pgMentionsToDomain(rows), nil
}
