package postgres

import (
	"time"

	"webmention/pkg/domain"
)

type PgMention struct {
	ID int64 `db:"id" goqu:"skipinsert"`

	Source string `db:"source"`
	Target string `db:"target"`
	Status string `db:"status"`

	CreatedAt time.Time `db:"created_at"`
}

func (p *PgMention) ToDomain() domain.Mention {
	return domain.Mention{
		Source:    p.Source,
		Target:    p.Target,
		Status:    domain.MentionStatus(p.Status),
		CreatedAt: p.CreatedAt.UTC(),
	}
}

func (p *PgMention) FromDomain(m domain.Mention) {
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	*p = PgMention{
		Source:    m.Source,
		Target:    m.Target,
		Status:    string(m.Status),
		CreatedAt: createdAt.UTC(),
	}
}

func pgMentionsToDomain(rows []PgMention) []domain.Mention {
	out := make([]domain.Mention, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}

	return out
}
