package testutil

import (
	"math"

	"github.com/disorderedmaterials/neta/internal/domain/molecule"
)

// Canned molecules shared by the domain, application and interface tests.
// Atom indices are documented on each builder because tests assert on them.

// tetrahedralDirections are unit vectors to the corners of a tetrahedron.
var tetrahedralDirections = []molecule.Vec3{
	{X: 1, Y: 1, Z: 1},
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
}

func along(origin molecule.Vec3, dir molecule.Vec3, length float64) molecule.Vec3 {
	return origin.Add(dir.Normalized().Scale(length))
}

// Methane returns CH4: C(0), H(1..4), tetrahedral.
func Methane() *molecule.Species {
	s := molecule.NewSpecies("methane")
	c := s.AddAtom(molecule.C, molecule.Vec3{})
	for _, d := range tetrahedralDirections {
		s.AddAtom(molecule.H, along(c.R, d, 1.09))
		s.MustAddBond(0, s.NAtoms()-1)
	}
	return s
}

// Methanol returns CH3OH: C(0), O(1), H(2,3,4) on carbon, H(5) on oxygen.
func Methanol() *molecule.Species {
	s := molecule.NewSpecies("methanol")
	c := s.AddAtom(molecule.C, molecule.Vec3{})
	o := s.AddAtom(molecule.O, along(c.R, tetrahedralDirections[0], 1.43))
	s.MustAddBond(0, 1)
	for _, d := range tetrahedralDirections[1:] {
		s.AddAtom(molecule.H, along(c.R, d, 1.09))
		s.MustAddBond(0, s.NAtoms()-1)
	}
	s.AddAtom(molecule.H, o.R.Add(molecule.Vec3{X: 0.96}))
	s.MustAddBond(1, 5)
	return s
}

// Water returns H2O: O(0), H(1), H(2) at 104.5°.
func Water() *molecule.Species {
	s := molecule.NewSpecies("water")
	s.AddAtom(molecule.O, molecule.Vec3{})
	half := 104.5 / 2 * math.Pi / 180
	s.AddAtom(molecule.H, molecule.Vec3{X: 0.96 * math.Sin(half), Y: 0.96 * math.Cos(half)})
	s.AddAtom(molecule.H, molecule.Vec3{X: -0.96 * math.Sin(half), Y: 0.96 * math.Cos(half)})
	s.MustAddBond(0, 1)
	s.MustAddBond(0, 2)
	return s
}

// Ethane returns C2H6: C(0), C(1), H(2,3,4) on C0, H(5,6,7) on C1.
func Ethane() *molecule.Species {
	s := molecule.NewSpecies("ethane")
	s.AddAtom(molecule.C, molecule.Vec3{})
	s.AddAtom(molecule.C, molecule.Vec3{X: 1.54})
	s.MustAddBond(0, 1)
	for i := 0; i < 3; i++ {
		s.AddAtom(molecule.H, molecule.Vec3{X: -0.4, Y: math.Cos(float64(i) * 2.1), Z: math.Sin(float64(i) * 2.1)})
		s.MustAddBond(0, s.NAtoms()-1)
	}
	for i := 0; i < 3; i++ {
		s.AddAtom(molecule.H, molecule.Vec3{X: 1.94, Y: math.Cos(float64(i) * 2.1), Z: math.Sin(float64(i) * 2.1)})
		s.MustAddBond(1, s.NAtoms()-1)
	}
	return s
}

// Propane returns C3H8: C(0)-C(1)-C(2), H(3,4,5) on C0, H(6,7) on C1,
// H(8,9,10) on C2.
func Propane() *molecule.Species {
	s := molecule.NewSpecies("propane")
	for i := 0; i < 3; i++ {
		s.AddAtom(molecule.C, molecule.Vec3{X: 1.5 * float64(i)})
	}
	s.MustAddBond(0, 1)
	s.MustAddBond(1, 2)
	addH := func(parent, n int) {
		for k := 0; k < n; k++ {
			p := s.Atoms()[parent].R
			s.AddAtom(molecule.H, p.Add(molecule.Vec3{Y: math.Cos(float64(k) * 2.1), Z: math.Sin(float64(k) * 2.1)}))
			s.MustAddBond(parent, s.NAtoms()-1)
		}
	}
	addH(0, 3)
	addH(1, 2)
	addH(2, 3)
	return s
}

// Benzene returns C6H6: ring C(0..5), H(6..11) with H(6+i) on C(i).
func Benzene() *molecule.Species {
	s := molecule.NewSpecies("benzene")
	for i := 0; i < 6; i++ {
		theta := float64(i) * math.Pi / 3
		s.AddAtom(molecule.C, molecule.Vec3{X: 1.39 * math.Cos(theta), Y: 1.39 * math.Sin(theta)})
	}
	for i := 0; i < 6; i++ {
		s.MustAddBond(i, (i+1)%6)
	}
	for i := 0; i < 6; i++ {
		theta := float64(i) * math.Pi / 3
		s.AddAtom(molecule.H, molecule.Vec3{X: 2.48 * math.Cos(theta), Y: 2.48 * math.Sin(theta)})
		s.MustAddBond(i, 6+i)
	}
	return s
}

// FusedBicyclic returns a six-membered carbon ring fused to a four-membered
// carbon ring, with an amine on one fusion atom:
//
//	6-ring:  C0-C1-C2-C3-C4-C5-C0
//	4-ring:  C0-C6-C7-C1 (shares C0 and C1)
//	amine:   N8 on C0, H9 and H10 on N8
//	H11..H14 on C2..C5, H15/H16 on C6, H17/H18 on C7
func FusedBicyclic() *molecule.Species {
	s := molecule.NewSpecies("fused-bicyclic")
	for i := 0; i < 6; i++ {
		theta := float64(i) * math.Pi / 3
		s.AddAtom(molecule.C, molecule.Vec3{X: 1.4 * math.Cos(theta), Y: 1.4 * math.Sin(theta)})
	}
	for i := 0; i < 6; i++ {
		s.MustAddBond(i, (i+1)%6)
	}
	c0, c1 := s.Atoms()[0].R, s.Atoms()[1].R
	out := c0.Add(c1).Normalized().Scale(1.5)
	s.AddAtom(molecule.C, c0.Add(out)) // 6
	s.AddAtom(molecule.C, c1.Add(out)) // 7
	s.MustAddBond(0, 6)
	s.MustAddBond(6, 7)
	s.MustAddBond(7, 1)

	s.AddAtom(molecule.N, c0.Add(molecule.Vec3{Z: 1.47})) // 8
	s.MustAddBond(0, 8)
	n := s.Atoms()[8].R
	s.AddAtom(molecule.H, n.Add(molecule.Vec3{X: 0.6, Z: 0.7}))  // 9
	s.AddAtom(molecule.H, n.Add(molecule.Vec3{X: -0.6, Z: 0.7})) // 10
	s.MustAddBond(8, 9)
	s.MustAddBond(8, 10)

	for i := 2; i < 6; i++ { // 11..14
		r := s.Atoms()[i].R
		s.AddAtom(molecule.H, r.Add(r.Normalized()))
		s.MustAddBond(i, s.NAtoms()-1)
	}
	for _, parent := range []int{6, 6, 7, 7} { // 15..18
		r := s.Atoms()[parent].R
		s.AddAtom(molecule.H, r.Add(molecule.Vec3{Z: float64(s.NAtoms()%2*2 - 1)}))
		s.MustAddBond(parent, s.NAtoms()-1)
	}
	return s
}

// Centred builds a species with a central atom of element centre surrounded
// by ligands of element ligand placed along dirs.  The centre is atom 0.
func Centred(centre, ligand molecule.Element, dirs ...molecule.Vec3) *molecule.Species {
	s := molecule.NewSpecies("centred")
	s.AddAtom(centre, molecule.Vec3{})
	for _, d := range dirs {
		s.AddAtom(ligand, d.Normalized().Scale(1.5))
		s.MustAddBond(0, s.NAtoms()-1)
	}
	return s
}

// Indices returns the indices of atoms in order.
func Indices(atoms []*molecule.Atom) []int {
	out := make([]int, len(atoms))
	for i, a := range atoms {
		out[i] = a.Index
	}
	return out
}
