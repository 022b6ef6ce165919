package netenv

import (
	"bufio"
	"bytes"
	"strings"
)

// scutilResolver is one "resolver #N" block of `scutil --dns`.
type scutilResolver struct {
	scoped      bool
	domain      string
	ifName      string
	nameservers []string
}

// parseScutilDNS parses the output of `scutil --dns`.
//
// The output lists the default resolvers first and the per interface
// ("scoped") resolvers second, each in the order the system consults them.
// Resolvers for a specific domain are supplemental and are skipped, as they
// are not used for general name resolution.
func parseScutilDNS(data []byte) []InterfaceResolverSet {
	resolvers := parseScutilResolvers(data)

	sets := make([]InterfaceResolverSet, 0, len(resolvers))
	for _, resolver := range resolvers {
		if resolver.domain != "" || len(resolver.nameservers) == 0 {
			continue
		}

		name := resolver.ifName
		if name == "" {
			name = "default"
		}

		servers := make([]string, len(resolver.nameservers))
		copy(servers, resolver.nameservers)

		// Scoped resolvers rank after the default ones.
		priority := 0
		if resolver.scoped {
			priority = 1
		}
		sets = append(sets, InterfaceResolverSet{
			Interface: name,
			Source:    "scutil",
			Priority:  priority,
			Servers:   servers,
		})
	}

	return sets
}

func parseScutilResolvers(data []byte) []*scutilResolver {
	var (
		resolvers []*scutilResolver
		current   *scutilResolver
		scoped    bool
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Split(bufio.ScanLines)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "DNS configuration"):
			scoped = strings.Contains(line, "scoped")
			current = nil
			continue
		case strings.HasPrefix(line, "resolver #"):
			current = &scutilResolver{scoped: scoped}
			resolvers = append(resolvers, current)
			continue
		case current == nil:
			continue
		}

		key, value, ok := strings.Cut(line, " : ")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch {
		case strings.HasPrefix(key, "nameserver["):
			current.nameservers = append(current.nameservers, value)
		case key == "domain":
			current.domain = value
		case key == "if_index":
			// Format: "6 (en0)"
			if start := strings.Index(value, "("); start >= 0 {
				if end := strings.Index(value[start:], ")"); end > 0 {
					current.ifName = value[start+1 : start+end]
				}
			}
		}
	}

	return resolvers
}
