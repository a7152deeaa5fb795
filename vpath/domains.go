package vpath

import (
	"github.com/wippyai/fs-bridge/errors"
)

// Domain is a symbolic search-path domain identifier. The values mirror
// the emulated API surface and are part of the guest ABI.
type Domain uint32

const (
	DomainApplication        Domain = 1
	DomainDocument           Domain = 9
	DomainApplicationSupport Domain = 14
)

// domainDocumentAlias is a legacy numeric alias observed in guest
// binaries. It resolves to the same Documents path as DomainDocument;
// lookup order keeps DomainDocument first so the alias branch is only
// reachable for the literal alias value.
const domainDocumentAlias Domain = 5

// DomainMask selects which domains a search covers. Only the user domain
// is implemented.
type DomainMask uint32

// UserDomainMask is the single supported domain mask.
const UserDomainMask DomainMask = 1

// HomePath returns the per-app sandbox home.
func HomePath(home Path) Path {
	return home
}

// DocumentsPath returns the guest Documents directory under home.
func DocumentsPath(home Path) Path {
	return home.Join("Documents")
}

// TemporaryPath returns the guest temporary directory under home.
func TemporaryPath(home Path) Path {
	return home.Join("tmp")
}

// AppSupportPath returns the Application Support directory under home.
func AppSupportPath(home Path) Path {
	return home.Join("Library", "Application Support")
}

// ApplicationsPath returns the fixed, shared applications directory.
func ApplicationsPath() Path {
	return Root.Join("Applications")
}

// SearchPath resolves a search-path domain to its single canonical
// sandbox location. Resolution is pure string manipulation over the
// supplied home directory; no storage access occurs.
//
// Only the (user domain, tilde expanded) configuration is implemented.
// Any other mask or flag combination, and any unknown domain value, is a
// configuration error and returns a fatal unsupported signal.
func SearchPath(home Path, dir Domain, mask DomainMask, expandTilde bool) (Path, error) {
	const op = "searchPathForDirectoriesInDomains"

	if mask != UserDomainMask {
		return Path{}, errors.Unsupported(errors.PhaseResolve, op, "only the user domain mask is implemented")
	}
	if !expandTilde {
		return Path{}, errors.Unsupported(errors.PhaseResolve, op, "unexpanded tilde paths are not implemented")
	}

	// First match wins: the document alias must stay behind the named
	// document domain.
	switch dir {
	case DomainApplication:
		return ApplicationsPath(), nil
	case DomainDocument, domainDocumentAlias:
		return DocumentsPath(home), nil
	case DomainApplicationSupport:
		return AppSupportPath(home), nil
	default:
		return Path{}, errors.New(errors.PhaseResolve, errors.KindUnsupported).
			Op(op).
			Value(dir).
			Detail("search-path domain %d is not implemented", dir).
			Build()
	}
}
