package domain

import "time"

type ColumnCreationData struct {
	ProjectId    ProjectId   `validate:"required"`
	Title        ColumnTitle `validate:"required,max=120"`
	HeroImageURL *string     `validate:"omitempty,url,max=2048"`
}

type Column struct {
	Id           ColumnId     `json:"id"`
	ProjectId    ProjectId    `json:"project_id"`
	Title        ColumnTitle  `json:"title"`
	Position     Position     `json:"position"`
	Seq          InsertionSeq `json:"seq"`
	HeroImageURL *string      `json:"hero_image_url"`
	Archived     bool         `json:"archived"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
