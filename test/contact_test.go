package test

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/portfolio/internal/contact"
)

func (s *IntegrationTestSuite) TestContact() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	var sent map[string]string
	s.decode(s.doRequest(ctx, "POST", "/api/contact", "", map[string]string{
		"name":    "Visitor",
		"email":   "Visitor@Example.com",
		"subject": "Hello",
		"message": "Nice site!",
	}), http.StatusCreated, &sent)
	assert.Equal(t, "sent", sent["status"])
	require.NotEmpty(t, sent["id"])

	invalid := s.doRequest(ctx, "POST", "/api/contact", "", map[string]string{
		"name":    "Visitor",
		"email":   "not-an-email",
		"message": "hi",
	})
	assert.Equal(t, http.StatusBadRequest, s.status(invalid))

	// contact messages are for admins only
	assert.Equal(t, http.StatusUnauthorized, s.status(s.doRequest(ctx, "GET", "/api/admin/messages", "", nil)))

	var messagesResp contact.MessagesResponse
	s.decode(s.doRequest(ctx, "GET", "/api/admin/messages?status=new", s.adminToken, nil), http.StatusOK, &messagesResp)
	require.NotEmpty(t, messagesResp.Messages)
	msg := messagesResp.Messages[0]
	assert.Equal(t, sent["id"], msg.ID)
	assert.Equal(t, "visitor@example.com", msg.Email)
	assert.Equal(t, contact.StatusNew, msg.Status)

	var updated contact.Message
	s.decode(s.doRequest(ctx, "PATCH", "/api/admin/messages/"+msg.ID, s.adminToken, map[string]string{
		"status": contact.StatusRead,
	}), http.StatusOK, &updated)
	assert.Equal(t, contact.StatusRead, updated.Status)

	assert.Equal(t, http.StatusOK, s.status(s.doRequest(ctx, "DELETE", "/api/admin/messages/"+msg.ID, s.adminToken, nil)))
}
