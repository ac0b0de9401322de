package intro

import "errors"

var (
	ErrTaskRepositoryRequired       = errors.New("task repository required")
	ErrCommunityRepositoryRequired  = errors.New("community repository required")
	ErrMembershipRepositoryRequired = errors.New("membership repository required")
	ErrActivityLogRequired          = errors.New("activity log required")
	ErrComposerRequired             = errors.New("composer required")
	ErrSafetyScorerRequired         = errors.New("safety scorer required")
)
