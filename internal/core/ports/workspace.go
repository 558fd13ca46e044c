package ports

// Workspace performs the file operations that keep targets isolated.
//
//go:generate go run go.uber.org/mock/mockgen -source=workspace.go -destination=mocks/mock_workspace.go -package=mocks
type Workspace interface {
	// CopyTree mirrors src into dst, replacing whatever dst held.
	CopyTree(src, dst string) error
	// CopyFile copies one file, keeping its mode.
	CopyFile(src, dst string) error
	// RemoveAll removes path and any children. A missing path is not an error.
	RemoveAll(path string) error
}
