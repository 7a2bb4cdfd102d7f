package service

import (
	"sort"
	"strings"

	"semantic-docstore-be/internal/entity"

	"github.com/google/uuid"
)

// generateClusterName labels a cluster from its members. Tags shared by at
// least half the members win; the top three (by member count, then first
// appearance) are title-cased and joined with " + ". Without a consensus the
// representative document's title is used, then "Unnamed Cluster".
func generateClusterName(members []*entity.Document, representativeId uuid.UUID) string {
	type tagStat struct {
		tag       string
		count     int
		firstSeen int
	}

	stats := make(map[string]*tagStat)
	order := 0
	for _, doc := range members {
		seen := make(map[string]bool)
		for _, raw := range strings.Split(doc.Tags, ",") {
			tag := strings.ToLower(strings.TrimSpace(raw))
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			if s, ok := stats[tag]; ok {
				s.count++
			} else {
				stats[tag] = &tagStat{tag: tag, count: 1, firstSeen: order}
				order++
			}
		}
	}

	// Consensus threshold: the tag must appear on at least half the members.
	threshold := (len(members) + 1) / 2
	common := make([]*tagStat, 0, len(stats))
	for _, s := range stats {
		if s.count >= threshold {
			common = append(common, s)
		}
	}
	if len(common) > 0 {
		sort.Slice(common, func(i, j int) bool {
			if common[i].count != common[j].count {
				return common[i].count > common[j].count
			}
			return common[i].firstSeen < common[j].firstSeen
		})
		if len(common) > 3 {
			common = common[:3]
		}
		parts := make([]string, len(common))
		for i, s := range common {
			parts[i] = titleCase(s.tag)
		}
		return strings.Join(parts, " + ")
	}

	for _, doc := range members {
		if doc.Id == representativeId {
			if doc.Title != "" {
				return doc.Title
			}
			return "Untitled"
		}
	}
	return "Unnamed Cluster"
}

// titleCase upper-cases the first letter of each space- or hyphen-separated
// word, e.g. "machine learning" -> "Machine Learning".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upperNext := true
	for _, r := range s {
		switch {
		case r == ' ' || r == '-' || r == '_':
			upperNext = true
			b.WriteRune(r)
		case upperNext:
			b.WriteString(strings.ToUpper(string(r)))
			upperNext = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
