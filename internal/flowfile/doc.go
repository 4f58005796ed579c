// Package flowfile reads and writes workflow documents in HCL. A document
// declares nodes as labeled blocks and wires them with connect blocks that
// reference node names; names map to stable SHA1-derived ids so repeated
// loads of the same document always produce the same graph.
package flowfile
