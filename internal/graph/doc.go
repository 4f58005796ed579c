// Package graph is the data model of the engine: typed nodes keyed by
// stable ids, slot-indexed connections between them, and the mutation
// surface editors drive (add, clone, delete, connect, select). The model
// holds no pixel data and performs no evaluation; the executor derives
// adjacency from the connection list on each run.
package graph
