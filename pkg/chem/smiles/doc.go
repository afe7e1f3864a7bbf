// Package smiles reads and writes a practical subset of SMILES.
//
// [Parse] and [ParseFragments] return molecules without coordinates;
// [chem.Molecule.Graph] seeds them on a zig-zag chain for the layout engine.
// [ParseReaction] accepts reaction SMILES ("reactants>agents>products").
// [Write] emits non-canonical SMILES from a molecule.
//
// All errors carry [errors.ErrCodeInvalidSMILES] and, where it is known, the
// 1-based position of the offending character.
package smiles
