package world

import "testing"

func TestParseMeshTypeRoundTrip(t *testing.T) {
	for _, m := range []MeshType{MeshCube, MeshCross, MeshFluid} {
		got, err := ParseMeshType(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMeshType(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMeshType("sphere"); err == nil {
		t.Errorf("expected error for unknown mesh type")
	}
}

func TestParseTransparency(t *testing.T) {
	for _, tr := range []Transparency{Opaque, Transparent, Translucent} {
		got, err := ParseTransparency(tr.String())
		if err != nil || got != tr {
			t.Errorf("ParseTransparency(%q) = %v, %v", tr.String(), got, err)
		}
	}
	if _, err := ParseTransparency("glass"); err == nil {
		t.Errorf("expected error for unknown transparency")
	}
}

func TestBlockTableUnknownPanics(t *testing.T) {
	table := NewBlockTable([]BlockProperties{{Mesh: MeshCube}})
	if table.Properties(0).Mesh != MeshCube {
		t.Errorf("Properties(0) wrong")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("Properties(1) did not panic")
		}
	}()
	table.Properties(1)
}
