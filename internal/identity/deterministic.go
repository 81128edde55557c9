package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// BlockDefinitionUUID derives the id for a catalog definition from its
// canonical type id, so builtin definitions keep stable ids across processes.
func BlockDefinitionUUID(typeID string) uuid.UUID {
	return UUID("go-builder:block_definition:" + strings.ToLower(strings.TrimSpace(typeID)))
}

// PostUUID derives a stable id for seeded posts.
func PostUUID(slug string) uuid.UUID {
	return UUID("go-builder:post:" + strings.ToLower(strings.TrimSpace(slug)))
}

// TemplateUUID derives a stable id for seeded templates.
func TemplateUUID(slug string) uuid.UUID {
	return UUID("go-builder:template:" + strings.ToLower(strings.TrimSpace(slug)))
}
