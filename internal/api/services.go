package api

import (
	"github.com/shelfdapp/shelfd-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth     *service.AuthService
	Media    *service.MediaService
	Search   *service.SearchService
	Lists    *service.ListService
	Reviews  *service.ReviewService
	Social   *service.SocialService
	Activity *service.ActivityService
	Users    *service.UserService
}
