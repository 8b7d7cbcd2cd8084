package models

import (
	"time"

	"github.com/vaughan-dsouza/medium-blog/pkg/schema"
)

type Post struct {
	ID        int64  `gorm:"primaryKey"`
	Title     string `gorm:"not null"`
	Content   string `gorm:"type:text;not null"`
	Published bool   `gorm:"not null"`
	AuthorID  int64  `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ToSchema converts the row into its wire representation.
func (p *Post) ToSchema() schema.Post {
	return schema.Post{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		AuthorID:  p.AuthorID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func PostsToSchema(posts []Post) []schema.Post {
	out := make([]schema.Post, 0, len(posts))
	for i := range posts {
		out = append(out, posts[i].ToSchema())
	}
	return out
}
