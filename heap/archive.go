package heap

import (
	"bytes"

	"github.com/klauspost/compress/zstd"
)

// archiveBeforeDrop writes every block currently in the relation to a
// zstd-compressed "<table>.db.bak.zst" snapshot before the relation's
// storage is deleted. It is a no-op when archiving is disabled or the
// relation holds no blocks.
func (f *HeapFile) archiveBeforeDrop() error {
	if !f.archive || f.store == nil {
		return nil
	}
	ids := f.store.BlockIDs()
	if len(ids) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return err
	}
	for _, id := range ids {
		page, err := f.store.Get(id)
		if err != nil {
			enc.Close()
			return err
		}
		if _, err := enc.Write(page.Bytes()); err != nil {
			enc.Close()
			return err
		}
	}
	if err := enc.Close(); err != nil {
		return err
	}

	return f.env.WriteArchive(f.name+".bak.zst", buf.Bytes())
}
