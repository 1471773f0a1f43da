package kb

import "fmt"

// Open constructs the repository named by backend ("file" or "bolt") at
// path. The returned close function releases backend resources and is always
// safe to call (the file backend holds none).
func Open(backend, path string) (Repository, func() error, error) {
	switch backend {
	case "file":
		return NewFileRepository(path), func() error { return nil }, nil
	case "bolt":
		repo, err := OpenBolt(path)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown knowledge base backend %q", backend)
	}
}
