// Package normalize rewrites repository URLs and source-control specifiers
// into a browsable https form.
package normalize

import (
	"regexp"
	"strings"
)

var (
	credentials = regexp.MustCompile(`://[^/@]+@`)
	gitRef      = regexp.MustCompile(`\.git#(.+)$`)
)

// URL normalizes raw. ok is false when the result holds no http URL.
//
// Rewrites run in a fixed order and each is a no-op on its own output:
//
//	git+ssh://git@github.com:user/repo.git -> https://github.com/user/repo
//	git://github.com/user/repo.git#v1.0    -> https://github.com/user/repo/tree/v1.0
func URL(raw string) (string, bool) {
	s := strings.TrimSpace(raw)

	s = stripGitScheme(s)
	s = rewriteScheme(s)
	s = credentials.ReplaceAllString(s, "://")
	s = rewriteSCP(s)
	s = gitRef.ReplaceAllString(s, "/tree/$1")
	s = strings.TrimSuffix(s, ".git")

	i := strings.Index(s, "http")
	if i < 0 {
		return "", false
	}
	return s[i:], true
}

// stripGitScheme drops a leading "git+" or the "git" of "git:". Other words
// starting with git (github:user/repo, git@host) are left alone.
func stripGitScheme(s string) string {
	switch {
	case strings.HasPrefix(s, "git+"):
		return s[len("git+"):]
	case strings.HasPrefix(s, "git:"):
		return s[len("git"):]
	}
	return s
}

func rewriteScheme(s string) string {
	switch {
	case strings.HasPrefix(s, "ssh://"):
		return "https://" + s[len("ssh://"):]
	case strings.HasPrefix(s, "://"):
		return "https" + s
	}
	return s
}

// rewriteSCP turns host:path into host/path. Only the host segment (up to the
// first slash after the scheme) is examined, and numeric ports are kept.
func rewriteSCP(s string) string {
	start := 0
	if i := strings.Index(s, "://"); i >= 0 {
		start = i + len("://")
	}

	rest := s[start:]
	end := strings.IndexByte(rest, '/')
	if end < 0 {
		end = len(rest)
	}
	host := rest[:end]

	colon := strings.IndexByte(host, ':')
	if colon < 0 || colon == len(host)-1 {
		return s
	}
	if isPort(host[colon+1:]) {
		return s
	}

	return s[:start] + host[:colon] + "/" + rest[colon+1:]
}

func isPort(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
