//go:build !linux

package rename

func renameNoReplace(src, dst string) error {
	return renameChecked(src, dst)
}
