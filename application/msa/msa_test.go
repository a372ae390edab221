package msa

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Dr-Moreb/biotite/application"
	"github.com/Dr-Moreb/biotite/sequence"
)

func testSequences(t *testing.T) []*sequence.Sequence {
	var seqs []*sequence.Sequence
	for _, s := range []string{"BIQTITE", "TITANITE", "BISMITE", "IQLITE"} {
		p, err := sequence.NewProtein(s)
		if err != nil {
			t.Fatal(err)
		}
		seqs = append(seqs, p)
	}
	return seqs
}

func TestParseOutput(t *testing.T) {
	out := ">1\nTITANITE\n>2\nBISM-ITE\n>0\nbiqt-ite\n>3\n-IQL-ITE\n"
	a, order, err := parseOutput([]byte(out), testSequences(t))
	if err != nil {
		t.Fatal(err)
	}
	want := "BIQT-ITE\nTITANITE\nBISM-ITE\n-IQL-ITE"
	if a.String() != want {
		t.Fatalf("Alignment is\n%s\nbut expected\n%s", a, want)
	}
	if !reflect.DeepEqual(order, []int{1, 2, 0, 3}) {
		t.Fatalf("Order = %v", order)
	}

	bad := []string{
		">0\nBIQTITE\n>1\nTITANITE\n",
		">0\nBIQTITE\n>1\nTITANITE\n>2\nBISMITE\n>x\nIQLITE\n",
		">0\nBIQTITE-\n>1\nTITANITE\n>2\nBISMITE-\n>3\nIQLITE\n",
	}
	for _, in := range bad {
		if _, _, err := parseOutput([]byte(in), testSequences(t)); err == nil {
			t.Errorf("Expected an error for\n%s", in)
		}
	}
}

func TestNew(t *testing.T) {
	seqs := testSequences(t)
	if _, err := New(Muscle, "", seqs[:1]); err == nil {
		t.Fatal("Expected an error for a single sequence.")
	}
	dna, err := sequence.NewNucleotide("ACGT")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(Mafft, "", append(seqs[:1:1], dna)); err == nil {
		t.Fatal("Expected an error for mixed sequence kinds.")
	}
	app, err := New(ClustalOmega, "", seqs)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := app.Alignment(); !errors.Is(err, application.ErrState) {
		t.Fatalf("Alignment before Join should fail, got %v.", err)
	}
	if err := app.Join(); !errors.Is(err, application.ErrState) {
		t.Fatalf("Join before Start should fail, got %v.", err)
	}
}

func TestParseProgram(t *testing.T) {
	for _, p := range []Program{Muscle, Muscle5, Mafft, ClustalOmega} {
		got, err := ParseProgram(p.String())
		if err != nil || got != p {
			t.Errorf("ParseProgram(%s) = %v, %v", p, got, err)
		}
	}
	if _, err := ParseProgram("tcoffee"); err == nil {
		t.Error("Expected an error for an unknown program.")
	}
	if Muscle5.DefaultBinary() != "muscle" {
		t.Error("MUSCLE 5 should run the muscle executable.")
	}
}

// fakeProgram writes a shell script that behaves like an alignment program
// by printing or copying canned output.
func fakeProgram(t *testing.T, script string) string {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not installed")
	}
	fp := filepath.Join(t.TempDir(), "fake")
	if err := os.WriteFile(fp, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatal(err)
	}
	return fp
}

func TestFakePrograms(t *testing.T) {
	muscleOut := ">1\nTITANITE\n>2\nBISM-ITE\n>0\nBIQT-ITE\n>3\n-IQL-ITE\n"
	mafftOut := ">0\n-biqtite\n>3\n--iqlite\n>2\n-bismite\n>1\ntitanite\n"
	clustalOut := ">1\nTITANITE\n>2\n-BISMITE\n>0\n-BIQTITE\n>3\n--IQLITE\n"
	tests := []struct {
		prog      Program
		script    string
		wantAli   string
		wantOrder []int
	}{
		{
			Muscle,
			"printf '" + muscleOut + "' > \"$5\"\n",
			"BIQT-ITE\nTITANITE\nBISM-ITE\n-IQL-ITE",
			[]int{1, 2, 0, 3},
		},
		{
			Mafft,
			"printf '" + mafftOut + "'\n",
			"-BIQTITE\nTITANITE\n-BISMITE\n--IQLITE",
			[]int{0, 3, 2, 1},
		},
		{
			ClustalOmega,
			"printf '" + clustalOut + "' > \"$4\"\n" +
				"printf '((1:0.1,2:0.2):0.05,(0:0.1,3:0.3):0.05);\\n' > \"${10}\"\n",
			"-BIQTITE\nTITANITE\n-BISMITE\n--IQLITE",
			[]int{1, 2, 0, 3},
		},
	}
	for _, tt := range tests {
		app, err := New(tt.prog, fakeProgram(t, tt.script), testSequences(t))
		if err != nil {
			t.Fatal(err)
		}
		app.WriteGuideTree = true
		if err := app.Start(context.Background()); err != nil {
			t.Fatalf("%s: %s", tt.prog, err)
		}
		if err := app.Join(); err != nil {
			t.Fatalf("%s: %s", tt.prog, err)
		}
		a, err := app.Alignment()
		if err != nil {
			t.Fatal(err)
		}
		if a.String() != tt.wantAli {
			t.Errorf("%s: alignment is\n%s\nbut expected\n%s",
				tt.prog, a, tt.wantAli)
		}
		order, _ := app.Order()
		if !reflect.DeepEqual(order, tt.wantOrder) {
			t.Errorf("%s: order = %v, want %v", tt.prog, order, tt.wantOrder)
		}

		tree, err := app.GuideTree()
		if tt.prog != ClustalOmega {
			if err == nil {
				t.Errorf("%s: expected no guide tree.", tt.prog)
			}
			continue
		}
		if err != nil {
			t.Fatal(err)
		}
		leaves, err := tree.LeafIndices()
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(leaves, tt.wantOrder) {
			t.Errorf("Guide tree leaves = %v, want %v", leaves, tt.wantOrder)
		}
	}
}

func TestBadGuideTree(t *testing.T) {
	clustalOut := ">1\nTITANITE\n>2\n-BISMITE\n>0\n-BIQTITE\n>3\n--IQLITE\n"
	fp := fakeProgram(t, "printf '"+clustalOut+"' > \"$4\"\n"+
		"printf '((1,2),(0,0));\\n' > \"${10}\"\n")
	app, err := New(ClustalOmega, fp, testSequences(t))
	if err != nil {
		t.Fatal(err)
	}
	app.WriteGuideTree = true
	if err := app.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := app.Join(); err == nil {
		t.Fatal("Expected an error for a guide tree with a repeated index.")
	}
}

func TestFailingProgram(t *testing.T) {
	fp := fakeProgram(t, "echo 'no sequences' >&2\nexit 1\n")
	_, _, err := Align(context.Background(), Muscle, fp, testSequences(t))
	var exitErr *application.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("Expected an exit error, got %v.", err)
	}
}

func TestInstalledPrograms(t *testing.T) {
	tests := []struct {
		prog      Program
		wantAli   string
		wantOrder []int
	}{
		{Muscle, "BIQT-ITE\nTITANITE\nBISM-ITE\n-IQL-ITE", []int{1, 2, 0, 3}},
		{Mafft, "-BIQTITE\nTITANITE\n-BISMITE\n--IQLITE", []int{0, 3, 2, 1}},
		{ClustalOmega, "-BIQTITE\nTITANITE\n-BISMITE\n--IQLITE",
			[]int{1, 2, 0, 3}},
	}
	for _, tt := range tests {
		if _, err := exec.LookPath(tt.prog.DefaultBinary()); err != nil {
			t.Logf("Skipping %s: not installed.", tt.prog)
			continue
		}
		a, order, err := Align(context.Background(), tt.prog, "",
			testSequences(t))
		if err != nil {
			t.Fatalf("%s: %s", tt.prog, err)
		}
		if a.String() != tt.wantAli {
			t.Errorf("%s: alignment is\n%s\nbut expected\n%s",
				tt.prog, a, tt.wantAli)
		}
		if !reflect.DeepEqual(order, tt.wantOrder) {
			t.Errorf("%s: order = %v, want %v", tt.prog, order, tt.wantOrder)
		}
	}
}
