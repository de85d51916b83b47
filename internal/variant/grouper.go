package variant

import (
	"strings"

	"shopmigrate/converter/internal/domain"
)

// Cluster is a set of products that are variants of one logical product
type Cluster struct {
	Key     string // master code, or the SKU stem when Derived
	Derived bool   // key came from the SKU pattern instead of a master code
	Members []*domain.Product
	Parent  *domain.Product // set by the aggregator for clusters with more than one member
}

// IsVariable reports whether the cluster needs a synthesized parent
func (c *Cluster) IsVariable() bool {
	return len(c.Members) > 1
}

// Grouper partitions products into variant clusters
type Grouper struct {
	settings Settings
}

func NewGrouper(settings Settings) *Grouper {
	return &Grouper{settings: settings}
}

// Group partitions products, keeping first-seen order of clusters and source order inside them.
// Every product lands in exactly one cluster, except a repeated SKU: the later row is dropped.
func (g *Grouper) Group(products []*domain.Product) ([]*Cluster, domain.Findings) {
	var findings domain.Findings

	clusters := make([]*Cluster, 0, len(products))
	index := make(map[string]*Cluster)
	seenSKU := make(map[string]struct{}, len(products))

	for _, p := range products {
		if _, dup := seenSKU[p.SKU]; dup {
			findings.AddWarning(domain.FindingGrouping, p.SKU, "duplicate SKU in source export, later row skipped")
			continue
		}
		seenSKU[p.SKU] = struct{}{}

		id, key, derived := g.clusterKey(p)
		cluster, ok := index[id]
		if !ok {
			cluster = &Cluster{Key: key, Derived: derived}
			index[id] = cluster
			clusters = append(clusters, cluster)
		}
		cluster.Members = append(cluster.Members, p)
	}

	return clusters, findings
}

// clusterKey namespaces keys so that neither a SKU stem nor a plain SKU joins a master code cluster
func (g *Grouper) clusterKey(p *domain.Product) (id, key string, derived bool) {
	if p.HasMasterCode() {
		key = strings.TrimSpace(p.MasterCode)
		return "master:" + key, key, false
	}

	if g.settings.SKUPatternFallback && g.settings.SKUPattern != nil {
		if m := g.settings.SKUPattern.FindStringSubmatch(p.SKU); m != nil && m[1] != "" {
			return "stem:" + m[1], m[1], true
		}
	}

	return "sku:" + p.SKU, p.SKU, true
}

// Flatten emits records in cluster order: a parent is followed by its variations
func Flatten(clusters []*Cluster) []*domain.Product {
	var records []*domain.Product
	for _, c := range clusters {
		if c.Parent != nil {
			records = append(records, c.Parent)
		}
		records = append(records, c.Members...)
	}
	return records
}
