package contact

import (
	"context"
	"strings"

	"github.com/mileusna/useragent"

	"github.com/2beens/portfolio/internal/odm"
	"github.com/2beens/portfolio/internal/users"
)

const (
	StatusNew      = "new"
	StatusRead     = "read"
	StatusArchived = "archived"
)

func IsValidStatus(status string) bool {
	return status == StatusNew || status == StatusRead || status == StatusArchived
}

type Message struct {
	odm.Base  `bson:",inline"`
	Name      string `bson:"name" json:"name" validate:"required,max=100"`
	Email     string `bson:"email" json:"email" validate:"required,email,max=254"`
	Subject   string `bson:"subject,omitempty" json:"subject,omitempty" validate:"max=200"`
	Message   string `bson:"message" json:"message" validate:"required,max=5000"`
	Status    string `bson:"status" json:"status" validate:"required,oneof=new read archived"`
	IP        string `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Browser   string `bson:"browser,omitempty" json:"browser,omitempty"`
	OS        string `bson:"os,omitempty" json:"os,omitempty"`
	Device    string `bson:"device,omitempty" json:"device,omitempty"`
	Country   string `bson:"country,omitempty" json:"country,omitempty"`
}

func (m *Message) BeforeSave(_ context.Context) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = users.NormalizeEmail(m.Email)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Message = strings.TrimSpace(m.Message)
	if m.Status == "" {
		m.Status = StatusNew
	}
	if m.UserAgent != "" && m.Browser == "" {
		m.Browser, m.OS, m.Device = ParseUserAgent(m.UserAgent)
	}
	return nil
}

// ParseUserAgent summarizes a user agent string into browser, OS and device type.
func ParseUserAgent(uaString string) (browser, os, device string) {
	ua := useragent.Parse(uaString)

	browser = ua.Name
	if browser == "" {
		browser = "Unknown"
	} else if ua.Version != "" {
		browser += " " + ua.Version
	}
	os = ua.OS
	if os == "" {
		os = "Unknown"
	}

	switch {
	case ua.Bot:
		device = "bot"
	case ua.Tablet:
		device = "tablet"
	case ua.Mobile:
		device = "mobile"
	default:
		device = "desktop"
	}
	return browser, os, device
}
