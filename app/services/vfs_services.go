package services

import (
	"github.com/ordinalfs/ordinalfs/config"
	"github.com/ordinalfs/ordinalfs/internal/docservice"
	"github.com/ordinalfs/ordinalfs/internal/vfs"
	"github.com/ordinalfs/ordinalfs/pkg/database"
)

// VFSService resolves a doc_root_key into a docservice.Service bound to the
// process-wide database connection. One instance is reused across requests;
// docservice.Service itself holds no per-request state.
type VFSService struct {
	engine *vfs.Engine
}

func NewVFSService() *VFSService {
	return &VFSService{engine: vfs.New(database.DB)}
}

// Root resolves a request's docRootKey field to the key to use, falling
// back to the configured default when the caller leaves it blank.
func (s *VFSService) Root(docRootKey string) string {
	if docRootKey == "" {
		return config.DefaultDocRoot()
	}
	return docRootKey
}

// For builds the docservice.Service for one doc root, trusting the caller
// to have already resolved and validated the key (used by background jobs
// and seeders dispatching against a known-good root).
func (s *VFSService) For(docRootKey string) *docservice.Service {
	return docservice.New(s.engine, s.Root(docRootKey))
}

// ForKey builds the docservice.Service for an already-resolved root key,
// skipping default substitution (used after ResolveRoot).
func (s *VFSService) ForKey(root string) *docservice.Service {
	return docservice.New(s.engine, root)
}

// ResolveRoot resolves docRootKey to its configured doc root and rejects any
// root not typed "vfs" (§6.4): document-root entries of another backend type
// are never dispatched to this engine.
func (s *VFSService) ResolveRoot(docRootKey string) (string, error) {
	key := s.Root(docRootKey)
	for _, dr := range config.DocRoots() {
		if dr.Key != key {
			continue
		}
		if dr.Type != "vfs" {
			return "", vfs.BadArgument
		}
		return key, nil
	}
	return key, nil
}

// Engine exposes the underlying engine for operations docservice doesn't
// compose (rename, setPublic, searchText are already single-transaction
// engine primitives; §5 only requires composition at the docservice layer).
func (s *VFSService) Engine() *vfs.Engine {
	return s.engine
}
