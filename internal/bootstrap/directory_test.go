package bootstrap_test

import (
	"context"
	"testing"

	"github.com/samirrijal/skylog/internal/bootstrap"
	"github.com/samirrijal/skylog/internal/pkg/config"
)

func fileConfig(path string) *config.Config {
	return &config.Config{Directory: config.DirectoryConfig{Source: config.SourceFile, File: path}}
}

func TestLoadDirectory_File(t *testing.T) {
	svc, b, err := bootstrap.LoadDirectory(context.Background(), fileConfig("../adapters/openflights/testdata/airports.dat"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer b.Close()

	if b.DB != nil || b.Mongo != nil {
		t.Error("file source should not open database connections")
	}
	if !svc.Loaded() {
		t.Fatal("directory not loaded")
	}
	if _, ok := svc.Lookup("EGLL"); !ok {
		t.Error("expected EGLL in the directory")
	}
}

func TestLoadDirectory_MissingFile(t *testing.T) {
	if _, _, err := bootstrap.LoadDirectory(context.Background(), fileConfig("testdata/missing.dat")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestOpenSource_Unknown(t *testing.T) {
	cfg := &config.Config{Directory: config.DirectoryConfig{Source: "s3"}}
	if _, _, err := bootstrap.OpenSource(context.Background(), cfg); err == nil {
		t.Fatal("expected an error for an unknown source")
	}
}

func TestScheduleRefresh(t *testing.T) {
	svc, b, err := bootstrap.LoadDirectory(context.Background(), fileConfig("../adapters/openflights/testdata/airports.dat"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer b.Close()

	c, err := bootstrap.ScheduleRefresh(svc, "")
	if err != nil || c != nil {
		t.Fatalf("empty spec: got %v, %v", c, err)
	}

	if _, err := bootstrap.ScheduleRefresh(svc, "every tuesday"); err == nil {
		t.Error("expected an error for an invalid spec")
	}

	c, err = bootstrap.ScheduleRefresh(svc, "@every 1h")
	if err != nil {
		t.Fatalf("valid spec: %v", err)
	}
	if len(c.Entries()) != 1 {
		t.Errorf("expected one scheduled entry, got %d", len(c.Entries()))
	}
	<-c.Stop().Done()
}
