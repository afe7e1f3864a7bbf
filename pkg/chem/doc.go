// Package chem provides a minimal molecule model and its mapping onto
// layout graphs.
//
// # Model
//
// A [Molecule] is a list of [Atom] values and a list of [Bond] values that
// reference atoms by index. A [Reaction] groups reactant and product
// molecules. The model carries what the file formats in [smiles] and [sdf]
// can express and what the renderers display; it does not check valence or
// charge balance.
//
// # Graph Mapping
//
// [Molecule.Graph] produces a [graph.Graph] for the layout engine:
//
//   - atom i becomes node "a<i>" with the element symbol (and charge) as label
//   - bonds become edges whose Order is the bond order (1.5 for aromatic)
//   - coordinates are scaled by [CoordScale] with the Y axis flipped
//
// [FromGraph] inverts the mapping so laid-out graphs can be written back as
// molfiles.
//
// [smiles]: https://pkg.go.dev/github.com/matzehuels/chemlayout/pkg/chem/smiles
// [sdf]: https://pkg.go.dev/github.com/matzehuels/chemlayout/pkg/chem/sdf
package chem
