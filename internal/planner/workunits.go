package planner

import (
	"sort"

	"github.com/schemadoc/schemadoc/internal/domainrules"
	"github.com/schemadoc/schemadoc/internal/types"
)

// buildWorkUnits implements spec.md §4.1 step 4: group every reachable
// database's tables by domain, build an ordered TableSpec list per group,
// and derive each work unit's id/priority/content_hash/estimated_minutes.
func buildWorkUnits(
	catalog []types.DatabaseConfig,
	tablesByDatabase map[string][]types.TableMetadata,
	domainsByDatabase map[string]map[string]string,
	fkCountsByDatabase map[string]fkCountPair,
	dict *domainrules.Dictionary,
) []types.WorkUnit {
	var units []types.WorkUnit

	for _, dbCfg := range catalog {
		tables := tablesByDatabase[dbCfg.Name]
		if len(tables) == 0 {
			continue
		}
		domainAssignment := domainsByDatabase[dbCfg.Name]
		fkCounts := fkCountsByDatabase[dbCfg.Name]

		byDomain := make(map[string][]types.TableMetadata)
		for _, t := range tables {
			domain := domainAssignment[t.FullyQualifiedName()]
			byDomain[domain] = append(byDomain[domain], t)
		}

		domainNames := make([]string, 0, len(byDomain))
		for domain := range byDomain {
			domainNames = append(domainNames, domain)
		}
		sort.Strings(domainNames)

		for _, domain := range domainNames {
			domainTables := byDomain[domain]
			sortTableMetadata(domainTables)

			specs := make([]types.TableSpec, 0, len(domainTables))
			for _, t := range domainTables {
				fqn := t.FullyQualifiedName()
				key := t.Schema + "." + t.Table
				incoming := fkCounts.incoming[key]
				outgoing := fkCounts.outgoing[key]

				metadataHash, err := types.MetadataHash(t)
				if err != nil {
					metadataHash = ""
				}

				specs = append(specs, types.TableSpec{
					FullyQualifiedName: fqn,
					Schema:             t.Schema,
					Table:              t.Table,
					Domain:             domain,
					Priority:           tablePriority(domain, incoming, dict),
					ColumnCount:        len(t.Columns),
					RowCountApprox:     t.RowCountApprox,
					IncomingFKCount:    incoming,
					OutgoingFKCount:    outgoing,
					MetadataHash:       metadataHash,
					ExistingComment:    t.Comment,
				})
			}

			units = append(units, types.WorkUnit{
				ID:               dbCfg.Name + "_" + domain,
				Database:         dbCfg.Name,
				Domain:           domain,
				Tables:           specs,
				EstimatedMinutes: estimatedMinutes(len(specs)),
				OutputDirectory:  "databases/" + dbCfg.Name + "/domains/" + domain,
				ContentHash:      types.ContentHash(specs),
			})
		}
	}

	return units
}

// tablePriority implements spec.md §4.1 step 4's priority rule: core domain
// or a table with 3+ incoming foreign keys gets priority 1 (highest), a
// system domain gets priority 3 (lowest), everything else is priority 2.
func tablePriority(domain string, incomingFKCount int, dict *domainrules.Dictionary) types.Priority {
	switch {
	case dict.IsCoreDomain(domain) || incomingFKCount >= 3:
		return types.PriorityCore
	case dict.IsSystemDomain(domain):
		return types.PrioritySystem
	default:
		return types.PriorityNormal
	}
}

// orderWorkUnits implements spec.md §4.1 step 5: core-domain work units
// first, then by descending table count, then by id ascending as a stable
// tiebreaker, with priority_order renumbered from 1.
func orderWorkUnits(units []types.WorkUnit, dict *domainrules.Dictionary) []types.WorkUnit {
	sort.SliceStable(units, func(i, j int) bool {
		iCore, jCore := dict.IsCoreDomain(units[i].Domain), dict.IsCoreDomain(units[j].Domain)
		if iCore != jCore {
			return iCore
		}
		if len(units[i].Tables) != len(units[j].Tables) {
			return len(units[i].Tables) > len(units[j].Tables)
		}
		return units[i].ID < units[j].ID
	})
	for i := range units {
		units[i].PriorityOrder = i + 1
	}
	return units
}
