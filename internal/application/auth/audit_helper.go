package auth

import (
	"errors"

	"github.com/baechuer/task-manager/internal/domain"
)

func domainCode(err error) string {
	if err == nil {
		return ""
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "non_domain_error"
}
