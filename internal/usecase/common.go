package usecase

import (
	"context"
	"errors"
	"strings"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"
	"go-recruitment-crm/pkg/logger"
)

func currentPrincipal(ctx context.Context) (domain.Principal, error) {
	p, ok := domain.PrincipalFrom(ctx)
	if !ok {
		return domain.Principal{}, apperror.Unauthorized("User not authenticated")
	}
	return p, nil
}

// requireRole returns the caller when their role is at least min.
func requireRole(ctx context.Context, min domain.Role) (domain.Principal, error) {
	p, err := currentPrincipal(ctx)
	if err != nil {
		return p, err
	}
	if !p.Role.AtLeast(min) {
		return p, apperror.Forbidden("Insufficient permissions")
	}
	return p, nil
}

// notFound turns domain.ErrNotFound into a 404 naming the resource.
func notFound(err error, resource string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(resource + " not found")
	}
	return err
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func cleanTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// publish emits a domain event. Delivery failures are logged, never returned:
// the database write they describe has already committed.
func publish(ctx context.Context, pub domain.EventPublisher, key string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.PublishJSON(ctx, key, payload); err != nil {
		logger.Log.Warn("failed to publish event", "routing_key", key, "error", err)
	}
}
