// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package libs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/mfer/internal/ctxlog"
	"github.com/spf13/afero"
)

const nodeModules = "node_modules"

// DeployResult records where a library was copied to.
type DeployResult struct {
	Lib          string
	Package      string
	Deployed     []string
	NotInstalled []string
	MissingMfes  []string
	// Err holds ErrNotBuilt, or one error per micro frontend that could not be written.
	Err error
}

// Deploy copies <libDir>/<lib>/dist into <mfeDir>/<mfe>/node_modules/<package>
// for each micro frontend that already has the package installed. Existing
// contents of the destination are replaced.
func Deploy(ctx context.Context, fs afero.Fs, libDir, lib, mfeDir string, mfes []string) *DeployResult {
	res := &DeployResult{Lib: lib, Package: lib}

	dist := filepath.Join(libDir, lib, DistDir)
	if ok, _ := afero.DirExists(fs, dist); !ok {
		res.Err = fmt.Errorf("%w for %s: %s", ErrNotBuilt, lib, dist)
		return res
	}

	res.Package = PackageName(ctx, fs, libDir, lib)

	var merr *multierror.Error

	for _, mfe := range mfes {
		if ctx.Err() != nil {
			merr = multierror.Append(merr, ctx.Err())
			break
		}

		root := filepath.Join(mfeDir, mfe)
		if ok, _ := afero.DirExists(fs, root); !ok {
			res.MissingMfes = append(res.MissingMfes, mfe)
			continue
		}

		dst := filepath.Join(root, nodeModules, filepath.FromSlash(res.Package))
		if ok, _ := afero.Exists(fs, dst); !ok {
			res.NotInstalled = append(res.NotInstalled, mfe)
			continue
		}

		if err := replaceDir(fs, dist, dst); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", mfe, err))
			continue
		}

		ctxlog.Debug(ctx, "deployed library", "lib", lib, "mfe", mfe, "path", dst)
		res.Deployed = append(res.Deployed, mfe)
	}

	res.Err = merr.ErrorOrNil()

	return res
}

func replaceDir(fs afero.Fs, src, dst string) error {
	if err := fs.RemoveAll(dst); err != nil {
		return err
	}

	return CopyDir(fs, src, dst)
}

// CopyDir recursively copies the contents of src into dst, creating dst.
func CopyDir(fs afero.Fs, src, dst string) error {
	return afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return fs.MkdirAll(target, info.Mode().Perm()|0o700)
		}

		return copyFile(fs, path, target, info.Mode().Perm())
	})
}

func copyFile(fs afero.Fs, src, dst string, perm os.FileMode) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}
