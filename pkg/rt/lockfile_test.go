package rt_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/GoSkeptic/pkg/rt"
)

var _ = Describe("Lockfile", func() {
	Describe("ReadLockfile", func() {
		It("reads [[package]] entries with crate names", func() {
			deps, err := rt.ReadLockfile("../../testdata/cargo/Cargo.lock")
			Expect(err).NotTo(HaveOccurred())
			Expect(deps).To(HaveLen(3))
			Expect(deps).To(HaveKey(rt.Dependency{Name: "my_crate", Version: "0.1.0"}))
			Expect(deps).To(HaveKey(rt.Dependency{Name: "serde", Version: "1.0.210"}))
			Expect(deps).To(HaveKey(rt.Dependency{Name: "unicode_width", Version: "0.1.13"}))
		})

		It("reads the legacy [root] table and its dependency list", func() {
			deps, err := rt.ReadLockfile("../../testdata/cargo/legacy.Cargo.lock")
			Expect(err).NotTo(HaveOccurred())
			Expect(deps).To(HaveKey(rt.Dependency{Name: "skeptic", Version: "0.13.3"}))
			Expect(deps).To(HaveKey(rt.Dependency{Name: "bytecount", Version: "0.1.6"}))
			Expect(deps).To(HaveKey(rt.Dependency{Name: "pulldown_cmark", Version: "0.0.15"}))
			Expect(deps).To(HaveKey(rt.Dependency{Name: "tempdir", Version: "0.3.5"}))
			Expect(deps).To(HaveLen(4))
		})

		It("fails on malformed TOML", func() {
			path := filepath.Join(GinkgoT().TempDir(), rt.LockfileName)
			Expect(os.WriteFile(path, []byte("[[package]\nname ="), 0644)).To(Succeed())
			_, err := rt.ReadLockfile(path)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("FindLockfile", func() {
		var root string

		BeforeEach(func() {
			root = GinkgoT().TempDir()
			Expect(os.MkdirAll(filepath.Join(root, "target", "debug"), 0755)).To(Succeed())
		})

		It("prefers the root directory", func() {
			Expect(os.WriteFile(filepath.Join(root, rt.LockfileName), nil, 0644)).To(Succeed())
			path, err := rt.FindLockfile(root, filepath.Join(root, "target", "debug"))
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(root, rt.LockfileName)))
		})

		It("falls back to the project owning the target directory", func() {
			other := GinkgoT().TempDir()
			Expect(os.WriteFile(filepath.Join(root, rt.LockfileName), nil, 0644)).To(Succeed())
			path, err := rt.FindLockfile(other, filepath.Join(root, "target", "debug"))
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(root, rt.LockfileName)))
		})

		It("reports a missing lockfile", func() {
			_, err := rt.FindLockfile(root, filepath.Join(root, "target", "debug"))
			Expect(err).To(MatchError(rt.ErrLockfileNotFound))
		})
	})
})
