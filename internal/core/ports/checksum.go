package ports

// Checksummer computes artifact checksums.
//
//go:generate go run go.uber.org/mock/mockgen -source=checksum.go -destination=mocks/mock_checksum.go -package=mocks
type Checksummer interface {
	// Sum returns the hex digest of the file at path.
	Sum(path string) (string, error)
	// WriteSidecar writes "<digest>  <name>" next to path and returns the digest.
	WriteSidecar(path string) (string, error)
}
