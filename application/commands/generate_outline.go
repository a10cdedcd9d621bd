package commands

import (
	"errors"
	"unicode/utf8"

	"influflow/domain/config"
	"influflow/domain/core/valueobjects"
)

// GenerateOutlineCommand requests a full outline generation for a topic
type GenerateOutlineCommand struct {
	UserID       string `json:"user_id" validate:"required"`
	Topic        string `json:"topic" validate:"required,min=1,max=300"`
	Format       string `json:"format" validate:"oneof=thread longform"`
	Instructions string `json:"instructions,omitempty" validate:"max=2000"`

	// RequestToken identifies this generation attempt within its editor
	// slot so superseded responses can be dropped.
	RequestToken uint64 `json:"-"`
}

// Validate validates the command
func (cmd GenerateOutlineCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.Topic == "" {
		return errors.New("topic is required")
	}
	if utf8.RuneCountInString(cmd.Topic) > config.DefaultDomainConfig().MaxTopicLength {
		return errors.New("topic exceeds maximum length")
	}
	if !valueobjects.ContentFormat(cmd.Format).IsValid() {
		return errors.New("format must be thread or longform")
	}
	return nil
}
