package core

import (
	"sort"
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"
)

type versionScheme string

const (
	schemeDeb     versionScheme = "deb"
	schemePep440  versionScheme = "pep440"
	schemeLexical versionScheme = "lexical"
)

// versionCache memoizes parsed version objects while ordering the
// versions declared for one product.
type versionCache struct {
	deb map[string]debversion.Version
	pep map[string]pep440.Version
}

func newVersionCache() *versionCache {
	return &versionCache{
		deb: map[string]debversion.Version{},
		pep: map[string]pep440.Version{},
	}
}

// debVersion returns a parsed Debian version, caching the result.
func (c *versionCache) debVersion(value string) (debversion.Version, error) {
	if parsed, ok := c.deb[value]; ok {
		return parsed, nil
	}
	parsed, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, err
	}
	c.deb[value] = parsed
	return parsed, nil
}

// pepVersion returns a parsed PEP 440 version, caching the result.
func (c *versionCache) pepVersion(value string) (pep440.Version, error) {
	if parsed, ok := c.pep[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.Parse(value)
	if err != nil {
		return pep440.Version{}, err
	}
	c.pep[value] = parsed
	return parsed, nil
}

// scheme picks one ordering for the whole set so comparisons stay
// transitive: Debian if every version parses as one, then PEP 440, then
// plain string order.
func (c *versionCache) scheme(versions []string) versionScheme {
	deb, pep := true, true
	for _, version := range versions {
		if deb {
			if _, err := c.debVersion(version); err != nil {
				deb = false
			}
		}
		if pep {
			if _, err := c.pepVersion(version); err != nil {
				pep = false
			}
		}
	}
	switch {
	case deb:
		return schemeDeb
	case pep:
		return schemePep440
	default:
		return schemeLexical
	}
}

// compare returns -1, 0, or 1 comparing two versions under scheme.
func (c *versionCache) compare(scheme versionScheme, a string, b string) int {
	switch scheme {
	case schemeDeb:
		v1, err1 := c.debVersion(a)
		v2, err2 := c.debVersion(b)
		if err1 == nil && err2 == nil {
			return v1.Compare(v2)
		}
	case schemePep440:
		v1, err1 := c.pepVersion(a)
		v2, err2 := c.pepVersion(b)
		if err1 == nil && err2 == nil {
			return v1.Compare(v2)
		}
	}
	return strings.Compare(a, b)
}

// SortVersions returns versions in ascending order.
func SortVersions(versions []string) []string {
	out := append([]string(nil), versions...)
	cache := newVersionCache()
	scheme := cache.scheme(out)
	sort.SliceStable(out, func(i, j int) bool {
		return cache.compare(scheme, out[i], out[j]) < 0
	})
	return out
}
