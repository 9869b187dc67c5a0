package aggregator

import (
	"sort"

	"github.com/pable/go-football-metrics/internal/model"
)

// PassNetwork builds the directed graph of completed passes between players of
// teamID. Edge weights count passes passer -> receiver; A->B and B->A are
// separate edges and passes to oneself are dropped. Nodes cover every passer
// and receiver, with their mean pass origin over located completed passes.
func PassNetwork(facts []model.Fact, teamID int64) model.PassNetwork {
	type acc struct {
		node   model.NetworkNode
		sx, sy float64
		n      int
	}
	nodes := make(map[int64]*acc)
	node := func(id int64) *acc {
		a, ok := nodes[id]
		if !ok {
			a = &acc{node: model.NetworkNode{PlayerID: id}}
			nodes[id] = a
		}
		return a
	}
	edges := make(map[[2]int64]int)

	for _, f := range canonical(facts) {
		if f.TeamID != teamID || f.Action != model.ActionPass || !f.Complete {
			continue
		}
		if f.RecipientID == 0 || f.RecipientID == f.PlayerID {
			continue
		}
		from := node(f.PlayerID)
		if from.node.Player == "" {
			from.node.Player = f.Player
		}
		from.node.Passes++
		if f.Start != nil {
			from.sx += f.Start.X
			from.sy += f.Start.Y
			from.n++
		}
		node(f.RecipientID)
		edges[[2]int64{f.PlayerID, f.RecipientID}]++
	}

	net := model.PassNetwork{TeamID: teamID}
	for _, a := range nodes {
		if a.n > 0 {
			a.node.AvgX = a.sx / float64(a.n)
			a.node.AvgY = a.sy / float64(a.n)
		}
		net.Nodes = append(net.Nodes, a.node)
	}
	for k, w := range edges {
		net.Edges = append(net.Edges, model.NetworkEdge{From: k[0], To: k[1], Weight: w})
	}

	sort.Slice(net.Nodes, func(i, j int) bool { return net.Nodes[i].PlayerID < net.Nodes[j].PlayerID })
	sort.Slice(net.Edges, func(i, j int) bool {
		if net.Edges[i].From != net.Edges[j].From {
			return net.Edges[i].From < net.Edges[j].From
		}
		return net.Edges[i].To < net.Edges[j].To
	})
	return net
}
