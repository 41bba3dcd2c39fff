package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/coachhub/coachhub/internal/shared/biztime"
	"github.com/coachhub/coachhub/internal/shared/id"
)

const maxCommentLength = 5000

type Comment struct {
	id         string
	ticketID   string
	userID     string
	content    string
	isInternal bool
	createdAt  time.Time
	updatedAt  time.Time
}

// NewComment creates a comment. Internal comments are visible to admins only.
func NewComment(ticketID, userID, content string, isInternal bool) (*Comment, error) {
	if ticketID == "" {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("content cannot be empty")
	}
	if len([]rune(content)) > maxCommentLength {
		return nil, fmt.Errorf("content exceeds maximum length of %d characters", maxCommentLength)
	}

	now := biztime.NowUTC()
	return &Comment{
		id:         id.New(),
		ticketID:   ticketID,
		userID:     userID,
		content:    content,
		isInternal: isInternal,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructComment(commentID, ticketID, userID, content string, isInternal bool, createdAt, updatedAt time.Time) (*Comment, error) {
	if commentID == "" {
		return nil, fmt.Errorf("comment ID is required")
	}
	if ticketID == "" {
		return nil, fmt.Errorf("ticket ID is required")
	}

	return &Comment{
		id:         commentID,
		ticketID:   ticketID,
		userID:     userID,
		content:    content,
		isInternal: isInternal,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}, nil
}

func (c *Comment) ID() string           { return c.id }
func (c *Comment) TicketID() string     { return c.ticketID }
func (c *Comment) UserID() string       { return c.userID }
func (c *Comment) Content() string      { return c.content }
func (c *Comment) IsInternal() bool     { return c.isInternal }
func (c *Comment) CreatedAt() time.Time { return c.createdAt }
func (c *Comment) UpdatedAt() time.Time { return c.updatedAt }
