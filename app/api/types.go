package api

import (
	"github.com/inkpress/blogger-import/app/importer"
)

type Handler struct {
	importer        *importer.Importer
	defaultAuthorID string
	defaultOptions  importer.Options
}

type ImportResponse struct {
	CreatedUsers []importer.UserStub `json:"created_users"`
}

type ErrorResponse struct {
	Error        string              `json:"error"`
	CreatedUsers []importer.UserStub `json:"created_users,omitempty"`
}
