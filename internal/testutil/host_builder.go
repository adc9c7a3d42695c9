package testutil

import (
	"github.com/haikalllp/spinai-fork/core"
	"github.com/haikalllp/spinai-fork/scm"
)

// HostBuilder seeds a scm.MemoryHost for a single repository.
//
//	host := NewHostBuilder("acme", "widgets").
//		Doc("docs/api/auth.mdx", "# Auth").
//		Changed(7, "src/api/auth.ts", patch, content).
//		Build()
type HostBuilder struct {
	host   *scm.MemoryHost
	repo   scm.Repo
	branch string
	pulls  map[int][]scm.ChangedFile
	heads  map[int]map[string]string
	order  []int
}

// NewHostBuilder creates a builder whose files land on branch main.
func NewHostBuilder(owner, name string) *HostBuilder {
	return &HostBuilder{
		host:   scm.NewMemoryHost(),
		repo:   scm.Repo{Owner: owner, Name: name},
		branch: "main",
		pulls:  map[int][]scm.ChangedFile{},
		heads:  map[int]map[string]string{},
	}
}

// Repo returns the seeded repository.
func (b *HostBuilder) Repo() scm.Repo { return b.repo }

// Doc adds a file on the default branch (chainable).
func (b *HostBuilder) Doc(path, content string) *HostBuilder {
	b.host.AddFile(b.repo, b.branch, path, content)
	return b
}

// Changed records a modified file of pull request number with its head
// content (chainable).
func (b *HostBuilder) Changed(number int, file, patch, content string) *HostBuilder {
	return b.changed(number, scm.ChangedFile{
		Filename:  file,
		Patch:     patch,
		Status:    core.ChangeModified,
		Additions: 1,
	}, content)
}

// Added records an added file of pull request number (chainable).
func (b *HostBuilder) Added(number int, file, patch, content string) *HostBuilder {
	return b.changed(number, scm.ChangedFile{
		Filename:  file,
		Patch:     patch,
		Status:    core.ChangeAdded,
		Additions: 1,
	}, content)
}

func (b *HostBuilder) changed(number int, f scm.ChangedFile, content string) *HostBuilder {
	if _, ok := b.pulls[number]; !ok {
		b.order = append(b.order, number)
		b.heads[number] = map[string]string{}
	}

	b.pulls[number] = append(b.pulls[number], f)
	b.heads[number][f.Filename] = content

	return b
}

// Build registers the recorded pull requests and returns the host.
func (b *HostBuilder) Build() *scm.MemoryHost {
	for _, n := range b.order {
		b.host.AddPullRequest(b.repo, n, b.pulls[n], b.heads[n])
	}

	return b.host
}
