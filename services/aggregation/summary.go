package aggregation

import "github.com/midburn/spark-admin/models"

// Summary holds the totals shown under an admin table
type Summary struct {
	Groups              int `json:"groups"`
	MembersCount        int `json:"members_count"`
	Tickets             int `json:"tickets"`
	FormerTickets       int `json:"former_tickets"`
	PreSaleTicketsQuota int `json:"pre_sale_tickets_quota"`
	Allocations         int `json:"allocations"`
}

// Summarize totals the aggregated metrics of groups
func Summarize(groups []*models.Group) Summary {
	s := Summary{Groups: len(groups)}
	for _, g := range groups {
		s.MembersCount += g.MembersCount
		s.Tickets += len(g.Tickets)
		s.FormerTickets += len(g.FormerTickets)
		s.PreSaleTicketsQuota += g.PreSaleTicketsQuota
		s.Allocations += len(g.Allocations)
	}
	return s
}
