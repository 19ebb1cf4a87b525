package domain

import (
	appErrors "matesite/internal/errors"
)

func invalidIssueError(reason string) error {
	return appErrors.New(appErrors.CodeInvalidIssue, reason, nil)
}

var (
	errTitleRequired       = invalidIssueError("title is required")
	errDescriptionRequired = invalidIssueError("description is required")
)
