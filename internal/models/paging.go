package models

import "github.com/foliosite/folio/internal/pagination"

func (p Post) PageKey() pagination.Key {
	pinned := p.IsPinned
	return pagination.Key{Pinned: &pinned, CreatedAt: p.CreatedAt, ID: p.ID}
}

func (p Project) PageKey() pagination.Key {
	pinned := p.IsPinned
	return pagination.Key{Pinned: &pinned, CreatedAt: p.CreatedAt, ID: p.ID}
}

func (l Log) PageKey() pagination.Key {
	return pagination.Key{CreatedAt: l.CreatedAt, ID: l.ID}
}

func (c Comment) PageKey() pagination.Key {
	return pagination.Key{CreatedAt: c.CreatedAt, ID: c.ID}
}
