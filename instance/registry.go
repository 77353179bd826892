package instance

import (
	"strings"
	"sync"

	"github.com/fedigrab-cli/fedigrab/key"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// learned holds hosts whose software was detected during this process run.
// The set is never persisted: detection results may change between runs
// (instances migrate software), so each run re-learns what it touches.
var (
	learnedMu sync.RWMutex
	learned   = make(map[string]Kind)
)

// Classify resolves a host to its software Kind without any network access.
// Precedence: static allow-list, user-configured extra instances, then the
// learned set. Returns Unknown when no list knows the host.
func Classify(host string) Kind {
	host = strings.ToLower(host)

	if _, bad := impossible[host]; bad {
		return Unknown
	}

	if kind, ok := static[host]; ok {
		return kind
	}

	if kind, ok := extra()[host]; ok {
		return kind
	}

	learnedMu.RLock()
	defer learnedMu.RUnlock()
	return learned[host]
}

// Learn records a detected host for the remainder of the process.
func Learn(host string, kind Kind) {
	if kind == Unknown {
		return
	}

	learnedMu.Lock()
	defer learnedMu.Unlock()
	learned[strings.ToLower(host)] = kind
}

// Known returns every host the process currently trusts, merged across the
// static list, configured extras and the learned set.
func Known() map[string]Kind {
	merged := make(map[string]Kind, len(static))
	for host, kind := range static {
		merged[host] = kind
	}
	for host, kind := range extra() {
		merged[host] = kind
	}

	learnedMu.RLock()
	defer learnedMu.RUnlock()
	for host, kind := range learned {
		merged[host] = kind
	}
	return merged
}

// Closest returns the known host with the smallest edit distance to the
// given one, for "did you mean" suggestions on failed detection.
func Closest(host string) string {
	hosts := lo.Keys(Known())
	if len(hosts) == 0 {
		return ""
	}

	return lo.MinBy(hosts, func(a string, b string) bool {
		return levenshtein.Distance(host, a) < levenshtein.Distance(host, b)
	})
}

// extra parses the instances.extra config entries ("host=software").
// Entries with an unrecognized software name are ignored.
func extra() map[string]Kind {
	entries := viper.GetStringSlice(key.InstancesExtra)
	if len(entries) == 0 {
		return nil
	}

	parsed := make(map[string]Kind, len(entries))
	for _, entry := range entries {
		host, software, found := strings.Cut(entry, "=")
		if !found {
			continue
		}
		if kind, ok := ParseKind(strings.ToLower(strings.TrimSpace(software))); ok {
			parsed[strings.ToLower(strings.TrimSpace(host))] = kind
		}
	}
	return parsed
}
