// Barfani - Glacier Lake Outburst Flood Monitoring and Early Warning
// Copyright 2026 Barfani Project Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/project-barfani/barfani

package alerting

import (
	"github.com/project-barfani/barfani/internal/models"
)

// RecipientGroups holds the notification distribution lists. Escalation is
// strictly nested: every tier's audience contains the audiences of the
// tiers below it.
type RecipientGroups struct {
	// PDMA is the provincial disaster management authority list.
	PDMA []string `koanf:"pdma" json:"pdma"`

	// Emergency is the district emergency response list.
	Emergency []string `koanf:"emergency" json:"emergency"`

	// Community is the downstream community contact list.
	Community []string `koanf:"community" json:"community"`
}

// DefaultRecipientGroups returns the production default distribution lists.
func DefaultRecipientGroups() RecipientGroups {
	return RecipientGroups{
		PDMA:      []string{"pdma@gilgit.gov.pk"},
		Emergency: []string{"emergency@barfani.pk"},
		Community: []string{"community@hunza.pk"},
	}
}

// ForSeverity resolves the distribution list for an alert tier:
// CRITICAL reaches everyone, HIGH reaches PDMA and emergency response,
// MEDIUM reaches PDMA only, LOW reaches nobody.
func (g RecipientGroups) ForSeverity(sev models.Severity) []string {
	switch sev {
	case models.SeverityCritical:
		return concat(g.PDMA, g.Emergency, g.Community)
	case models.SeverityHigh:
		return concat(g.PDMA, g.Emergency)
	case models.SeverityMedium:
		return concat(g.PDMA)
	}
	return []string{}
}

func concat(lists ...[]string) []string {
	var n int
	for _, l := range lists {
		n += len(l)
	}
	out := make([]string, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
