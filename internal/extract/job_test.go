// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/invowk/pakextract/internal/core/jobbase"
	"github.com/invowk/pakextract/internal/mainloop"
	"github.com/invowk/pakextract/internal/testutil"
)

var testInfo = PackageInfo{LastUpdateTime: time.UnixMilli(1_700_000_000_000), VersionCode: 42}

func testPackage() fstest.MapFS {
	return fstest.MapFS{
		"assets/en-US.pak":  {Data: []byte("english strings")},
		"assets/en-GB.pak":  {Data: []byte("british strings")},
		"assets/icudtl.dat": {Data: []byte("icu data")},
	}
}

type jobFixture struct {
	job    *Job
	loop   *mainloop.Loop
	layout Layout
	fsys   *testutil.CountingFS
}

func newJobFixture(t *testing.T, appData string, info PackageMetadata, pkg fstest.MapFS, names ...AssetName) *jobFixture {
	t.Helper()

	b := NewBuilder()
	if err := b.SetAssets(names...); err != nil {
		t.Fatalf("SetAssets failed: %v", err)
	}

	fx := &jobFixture{
		loop:   mainloop.New(),
		layout: Layout{AppDataDir: appData},
		fsys:   testutil.NewCountingFS(pkg),
	}
	job, err := NewJob(Dependencies{
		Plan:     b.Build(),
		Layout:   fx.layout,
		Source:   NewFSSource(fx.fsys, "assets"),
		Metadata: info,
		Main:     fx.loop,
	})
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	fx.job = job
	return fx
}

func (fx *jobFixture) runToEnd(t *testing.T) error {
	t.Helper()

	fx.job.Start(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return fx.job.WaitForCompletion(ctx)
}

func TestJobExtractsRequiredSet(t *testing.T) {
	t.Parallel()

	appData := t.TempDir()
	pkg := testPackage()
	fx := newJobFixture(t, appData, staticMetadata{info: testInfo}, pkg, "en-US.pak", "en-GB.pak", ICUDataAsset)

	if err := fx.runToEnd(t); err != nil {
		t.Fatalf("extraction failed: %v", err)
	}
	if fx.job.State() != jobbase.StateCompleted {
		t.Fatalf("State() = %v, want completed", fx.job.State())
	}

	suffix := testInfo.Suffix()
	for _, name := range []AssetName{"en-US.pak", "en-GB.pak", ICUDataAsset} {
		got := testutil.MustReadFile(t, fx.layout.PathFor(name, suffix))
		if want := pkg["assets/"+string(name)].Data; string(got) != string(want) {
			t.Errorf("%s: extracted %q, want %q", name, got, want)
		}
	}

	if _, err := os.Stat(filepath.Join(appData, string(ICUDataAsset)+suffix)); err != nil {
		t.Errorf("app data asset not placed in app data dir: %v", err)
	}

	names := ListNames(fx.layout.OutputDir())
	slices.Sort(names)
	if want := []string{"en-GB.pak" + suffix, "en-US.pak" + suffix}; !slices.Equal(names, want) {
		t.Errorf("output dir = %v, want %v", names, want)
	}

	res := fx.job.Result()
	if res.Suffix != suffix || res.UpToDate || len(res.Extracted) != 3 {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Extracted[0].Name != "en-US.pak" || res.Extracted[2].Name != ICUDataAsset {
		t.Errorf("assets not extracted in declared order: %+v", res.Extracted)
	}
}

func TestJobStartIsIdempotent(t *testing.T) {
	t.Parallel()

	fx := newJobFixture(t, t.TempDir(), staticMetadata{info: testInfo}, testPackage(), "en-US.pak")

	var started atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			if fx.job.Start(context.Background()) {
				started.Add(1)
			}
		})
	}
	wg.Wait()

	if err := fx.job.WaitForCompletion(context.Background()); err != nil {
		t.Fatalf("extraction failed: %v", err)
	}
	if started.Load() != 1 {
		t.Errorf("%d Start calls launched the job, want 1", started.Load())
	}
	if fx.job.Start(context.Background()) {
		t.Error("Start after completion launched the job again")
	}
	if got := fx.fsys.Opens("assets/en-US.pak"); got != 1 {
		t.Errorf("asset opened %d times, want 1", got)
	}
}

func TestJobSkipsWhenUpToDate(t *testing.T) {
	t.Parallel()

	appData := t.TempDir()
	first := newJobFixture(t, appData, staticMetadata{info: testInfo}, testPackage(), "en-US.pak", "en-GB.pak")
	if err := first.runToEnd(t); err != nil {
		t.Fatalf("first extraction failed: %v", err)
	}

	outputs := ListNames(first.layout.OutputDir())
	before := make(map[string]time.Time, len(outputs))
	for _, n := range outputs {
		fi, err := os.Stat(filepath.Join(first.layout.OutputDir(), n))
		if err != nil {
			t.Fatal(err)
		}
		before[n] = fi.ModTime()
	}

	second := newJobFixture(t, appData, staticMetadata{info: testInfo}, testPackage(), "en-US.pak", "en-GB.pak")
	if err := second.runToEnd(t); err != nil {
		t.Fatalf("second extraction failed: %v", err)
	}

	if n := second.fsys.TotalOpens(); n != 0 {
		t.Errorf("up-to-date run opened %d package entries, want 0", n)
	}
	if !second.job.Result().UpToDate {
		t.Error("Result().UpToDate = false, want true")
	}
	for n, mt := range before {
		fi, err := os.Stat(filepath.Join(second.layout.OutputDir(), n))
		if err != nil {
			t.Fatalf("%s disappeared: %v", n, err)
		}
		if !fi.ModTime().Equal(mt) {
			t.Errorf("%s was rewritten", n)
		}
	}
}

func TestJobReplacesStaleFilesOnVersionChange(t *testing.T) {
	t.Parallel()

	appData := t.TempDir()
	first := newJobFixture(t, appData, staticMetadata{info: testInfo}, testPackage(), "en-US.pak")
	if err := first.runToEnd(t); err != nil {
		t.Fatalf("first extraction failed: %v", err)
	}

	outputDir := first.layout.OutputDir()
	testutil.MustWriteFile(t, filepath.Join(outputDir, "leftover.pak.tmp"), []byte("partial"))
	testutil.MustWriteFile(t, filepath.Join(appData, string(V8SnapshotAsset)), []byte("legacy"))

	updated := testInfo
	updated.VersionCode++
	second := newJobFixture(t, appData, staticMetadata{info: updated}, testPackage(), "en-US.pak")
	if err := second.runToEnd(t); err != nil {
		t.Fatalf("second extraction failed: %v", err)
	}

	if got, want := ListNames(outputDir), []string{"en-US.pak" + updated.Suffix()}; !slices.Equal(got, want) {
		t.Errorf("output dir = %v, want %v", got, want)
	}
	if _, err := os.Stat(filepath.Join(appData, string(V8SnapshotAsset))); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("legacy app data file survived the sweep: %v", err)
	}
}

func TestJobFailsOnMissingAsset(t *testing.T) {
	t.Parallel()

	fx := newJobFixture(t, t.TempDir(), staticMetadata{info: testInfo}, testPackage(), "en-US.pak", "fr.pak")

	ran := false
	fx.job.OnComplete(func() { ran = true })

	err := fx.runToEnd(t)
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("WaitForCompletion = %v, want ErrSourceNotFound", err)
	}
	if fx.job.State() != jobbase.StateFailed {
		t.Errorf("State() = %v, want failed", fx.job.State())
	}

	select {
	case got := <-fx.job.Err():
		if !errors.Is(got, ErrSourceNotFound) {
			t.Errorf("Err() delivered %v", got)
		}
	default:
		t.Error("failure not delivered on Err()")
	}

	fx.loop.Drain()
	if ran {
		t.Error("completion callback ran after a failure")
	}

	suffix := testInfo.Suffix()
	if _, err := os.Stat(fx.layout.PathFor("fr.pak", suffix)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output exists for a failed asset: %v", err)
	}
	for _, n := range ListNames(fx.layout.OutputDir()) {
		if filepath.Ext(n) == TempSuffix {
			t.Errorf("temp file %s left behind", n)
		}
	}
}

func TestJobFailsOnVersionLookup(t *testing.T) {
	t.Parallel()

	appData := t.TempDir()
	fx := newJobFixture(t, appData, staticMetadata{err: errors.New("package not installed")}, testPackage(), "en-US.pak")

	if err := fx.runToEnd(t); !errors.Is(err, ErrVersionLookup) {
		t.Fatalf("WaitForCompletion = %v, want ErrVersionLookup", err)
	}
	if !errors.Is(fx.job.LastError(), ErrVersionLookup) {
		t.Errorf("LastError() = %v", fx.job.LastError())
	}
	if fx.fsys.TotalOpens() != 0 {
		t.Error("package read after version lookup failed")
	}
	if _, err := os.Stat(fx.layout.OutputDir()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output dir created after version lookup failed: %v", err)
	}
}

func TestJobCompletionCallbacks(t *testing.T) {
	t.Parallel()

	fx := newJobFixture(t, t.TempDir(), staticMetadata{info: testInfo}, testPackage(), "en-US.pak")

	var order []string
	fx.job.OnComplete(func() { order = append(order, "first") })
	fx.job.OnComplete(func() { order = append(order, "second") })

	fx.job.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fx.loop.RunUntil(ctx, fx.job.Done()); err != nil {
		t.Fatalf("RunUntil failed: %v", err)
	}
	fx.loop.Drain()

	fx.job.OnComplete(func() { order = append(order, "late") })
	if len(order) != 2 {
		t.Fatalf("late callback ran inline or queued ones missing: %v", order)
	}
	fx.loop.Drain()

	if want := []string{"first", "second", "late"}; !slices.Equal(order, want) {
		t.Errorf("callback order = %v, want %v", order, want)
	}
}

func TestJobCallbacksRegisteredWhileRunning(t *testing.T) {
	t.Parallel()

	const workers = 16

	fx := newJobFixture(t, t.TempDir(), staticMetadata{info: testInfo}, testPackage(), "en-US.pak", "en-GB.pak")

	var (
		runs     [workers]atomic.Int32
		offLoop  atomic.Int32
		wg       sync.WaitGroup
		startGun = make(chan struct{})
	)
	for i := range workers {
		wg.Go(func() {
			<-startGun
			fx.job.OnComplete(func() {
				runs[i].Add(1)
				if !fx.loop.Dispatching() {
					offLoop.Add(1)
				}
			})
		})
	}

	close(startGun)
	fx.job.Start(context.Background())
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fx.loop.RunUntil(ctx, fx.job.Done()); err != nil {
		t.Fatalf("RunUntil failed: %v", err)
	}
	fx.loop.Drain()

	if err := fx.job.LastError(); err != nil {
		t.Fatalf("extraction failed: %v", err)
	}
	for i := range workers {
		if n := runs[i].Load(); n != 1 {
			t.Errorf("callback %d ran %d times, want 1", i, n)
		}
	}
	if n := offLoop.Load(); n != 0 {
		t.Errorf("%d callbacks ran outside the main loop", n)
	}
}

func TestJobEmptyPlan(t *testing.T) {
	t.Parallel()

	appData := filepath.Join(t.TempDir(), "never-created")
	loop := mainloop.New()
	job, err := NewJob(Dependencies{Plan: NewBuilder().Build(), Layout: Layout{AppDataDir: appData}, Main: loop})
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	ran := 0
	job.OnComplete(func() { ran++ })

	if !job.Start(context.Background()) {
		t.Fatal("Start reported no-op for a fresh job")
	}
	if job.State() != jobbase.StateCompleted {
		t.Fatalf("State() = %v, want completed", job.State())
	}
	if err := job.WaitForCompletion(context.Background()); err != nil {
		t.Errorf("WaitForCompletion = %v", err)
	}

	loop.Drain()
	if ran != 1 {
		t.Errorf("callback ran %d times, want 1", ran)
	}
	if _, err := os.Stat(appData); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("empty plan touched the filesystem: %v", err)
	}
}

func TestJobWaitBeforeStart(t *testing.T) {
	t.Parallel()

	fx := newJobFixture(t, t.TempDir(), staticMetadata{info: testInfo}, testPackage(), "en-US.pak")
	if err := fx.job.WaitForCompletion(context.Background()); !errors.Is(err, ErrConfig) {
		t.Errorf("WaitForCompletion before Start = %v, want ErrConfig", err)
	}
}

func TestJobWaitHonorsContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	md := blockingMetadata{release: release, info: testInfo}
	fx := newJobFixture(t, t.TempDir(), md, testPackage(), "en-US.pak")
	fx.job.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := fx.job.WaitForCompletion(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForCompletion = %v, want deadline exceeded", err)
	}
	if fx.job.State() != jobbase.StateRunning {
		t.Errorf("State() = %v, a caller timeout must not stop the job", fx.job.State())
	}

	close(release)
	if err := fx.job.WaitForCompletion(context.Background()); err != nil {
		t.Errorf("job failed after release: %v", err)
	}
}

func TestMustWaitForCompletionPanicsOnFailure(t *testing.T) {
	t.Parallel()

	fx := newJobFixture(t, t.TempDir(), staticMetadata{info: testInfo}, testPackage(), "missing.pak")
	fx.job.Start(context.Background())

	defer func() {
		if recover() == nil {
			t.Error("MustWaitForCompletion did not panic")
		}
	}()
	fx.job.MustWaitForCompletion()
}

func TestNewJobValidation(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	_ = b.SetAssets("en-US.pak")
	plan := b.Build()
	md := staticMetadata{info: testInfo}

	tests := []struct {
		name string
		deps Dependencies
	}{
		{"no main context", Dependencies{Plan: plan, Layout: Layout{AppDataDir: "/data"}, Metadata: md, Source: NewFSSource(fstest.MapFS{}, "")}},
		{"no app data dir", Dependencies{Plan: plan, Metadata: md, Source: NewFSSource(fstest.MapFS{}, ""), Main: mainloop.New()}},
		{"no metadata", Dependencies{Plan: plan, Layout: Layout{AppDataDir: "/data"}, Source: NewFSSource(fstest.MapFS{}, ""), Main: mainloop.New()}},
		{"no source", Dependencies{Plan: plan, Layout: Layout{AppDataDir: "/data"}, Metadata: md, Main: mainloop.New()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewJob(tt.deps); !errors.Is(err, ErrConfig) {
				t.Errorf("NewJob = %v, want ErrConfig", err)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	t.Parallel()

	if IsFatal(nil) {
		t.Error("nil is fatal")
	}
	if IsFatal(&DeleteWarning{Path: "x", Err: os.ErrPermission}) {
		t.Error("DeleteWarning is fatal")
	}
	if !IsFatal(&IOError{Op: "rename", Path: "x", Err: os.ErrPermission}) {
		t.Error("IOError is not fatal")
	}
}

type blockingMetadata struct {
	release <-chan struct{}
	info    PackageInfo
}

func (m blockingMetadata) PackageInfo(ctx context.Context) (PackageInfo, error) {
	select {
	case <-m.release:
		return m.info, nil
	case <-ctx.Done():
		return PackageInfo{}, ctx.Err()
	}
}
