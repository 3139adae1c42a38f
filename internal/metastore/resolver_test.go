package metastore

import "testing"

func TestResolve(t *testing.T) {
	r := NewResolver("https://ipfs.io/ipfs", "https://arweave.net")

	cases := []struct {
		ref  string
		want string
		ok   bool
	}{
		{"ipfs://QmAbc123", "https://ipfs.io/ipfs/QmAbc123", true},
		{"ar://txid456", "https://arweave.net/txid456", true},
		{"https://example.org/meta.json", "https://example.org/meta.json", true},
		{"http://example.org/meta.json", "http://example.org/meta.json", true},
		{"  ipfs://QmTrimmed ", "https://ipfs.io/ipfs/QmTrimmed", true},
		{"", "", false},
		{"ftp://example.org/meta.json", "", false},
		{"QmBareCid", "", false},
	}
	for _, c := range cases {
		got, err := r.Resolve(c.ref)
		if c.ok {
			if err != nil || got != c.want {
				t.Errorf("Resolve(%q) = %q, %v; want %q", c.ref, got, err, c.want)
			}
			continue
		}
		if err == nil {
			t.Errorf("Resolve(%q) = %q, want error", c.ref, got)
		}
	}
}

func TestResolve_GatewayWithTrailingSlash(t *testing.T) {
	r := NewResolver("https://ipfs.io/ipfs/", "https://arweave.net/")
	got, err := r.Resolve("ipfs://QmAbc")
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://ipfs.io/ipfs/QmAbc" {
		t.Fatalf("got %q", got)
	}
}
