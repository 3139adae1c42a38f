// Package metastore resolves metadata and image references to fetchable
// URIs. Read-only collaborator: storage itself lives outside the relay.
package metastore

import (
	"fmt"
	"net/url"
	"strings"
)

type Resolver struct {
	ipfsGateway    string
	arweaveGateway string
}

func NewResolver(ipfsGateway, arweaveGateway string) *Resolver {
	return &Resolver{
		ipfsGateway:    ensureSlash(ipfsGateway),
		arweaveGateway: ensureSlash(arweaveGateway),
	}
}

// Resolve maps a reference to a URI: ipfs:// and ar:// go through the
// configured gateways, http(s) passes through, anything else is rejected.
func (r *Resolver) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty metadata reference")
	}
	switch {
	case strings.HasPrefix(ref, "ipfs://"):
		return r.ipfsGateway + strings.TrimPrefix(ref, "ipfs://"), nil
	case strings.HasPrefix(ref, "ar://"):
		return r.arweaveGateway + strings.TrimPrefix(ref, "ar://"), nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		if _, err := url.Parse(ref); err != nil {
			return "", fmt.Errorf("invalid metadata URL %q: %w", ref, err)
		}
		return ref, nil
	default:
		return "", fmt.Errorf("unsupported metadata reference scheme in %q", ref)
	}
}

func ensureSlash(s string) string {
	if s != "" && !strings.HasSuffix(s, "/") {
		return s + "/"
	}
	return s
}
