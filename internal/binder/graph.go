package binder

import "github.com/indexedakki/vectors-medtech/internal/record"

// reach walks the related-records reference graph starting from the given
// record and returns every reachable record in discovery order. Traversal
// is an explicit worklist with a visited set, so reference cycles terminate
// and each node appears at most once. Tokens that fail the accept filter
// (other parents, already-claimed children, unknown articles) are neither
// returned nor traversed.
func reach(start record.Record, index map[string]record.Record, accept func(artNo string) bool) []record.Record {
	visited := map[string]bool{start.ArticleNo: true}
	queue := []record.Record{start}

	var found []record.Record
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		for _, token := range record.Tokens(node.RelatedRecords) {
			if visited[token] {
				continue
			}
			visited[token] = true

			next, ok := index[token]
			if !ok || !accept(token) {
				continue
			}
			found = append(found, next)
			queue = append(queue, next)
		}
	}
	return found
}
