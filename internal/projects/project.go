package projects

import (
	"context"
	"strings"

	"github.com/2beens/portfolio/internal/odm"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

type Links struct {
	GitHub string `bson:"github,omitempty" json:"github,omitempty" validate:"omitempty,url"`
	Live   string `bson:"live,omitempty" json:"live,omitempty" validate:"omitempty,url"`
	Other  string `bson:"other,omitempty" json:"other,omitempty" validate:"omitempty,url"`
}

type Project struct {
	odm.Base        `bson:",inline"`
	Title           string   `bson:"title" json:"title" validate:"required,max=200"`
	Description     string   `bson:"description" json:"description" validate:"required,max=500"`
	LongDescription string   `bson:"long_description,omitempty" json:"long_description,omitempty"`
	Technologies    []string `bson:"technologies" json:"technologies" validate:"dive,max=50"`
	Links           Links    `bson:"links" json:"links"`
	Image           string   `bson:"image,omitempty" json:"image,omitempty" validate:"max=500"`
	Featured        bool     `bson:"featured" json:"featured"`
	Category        string   `bson:"category,omitempty" json:"category,omitempty" validate:"max=50"`
	Order           int      `bson:"order" json:"order"`
	Status          string   `bson:"status" json:"status" validate:"required,oneof=draft published"`
}

func (p *Project) IsPublished() bool {
	return p.Status == StatusPublished
}

func (p *Project) BeforeSave(_ context.Context) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	if p.Status == "" {
		p.Status = StatusDraft
	}

	technologies := make([]string, 0, len(p.Technologies))
	seen := make(map[string]bool, len(p.Technologies))
	for _, t := range p.Technologies {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		technologies = append(technologies, t)
	}
	p.Technologies = technologies

	p.Links.GitHub = strings.TrimSpace(p.Links.GitHub)
	p.Links.Live = strings.TrimSpace(p.Links.Live)
	p.Links.Other = strings.TrimSpace(p.Links.Other)

	return nil
}
