package utils

import "fmt"

// BlockID is an index of a block
type BlockID int

// ByteRange is a contiguous range of bytes
type ByteRange struct {
	ID     BlockID
	Offset int64
	Length int64
}

// ToString stringifies the object
func (r ByteRange) ToString() string {
	return fmt.Sprintf("<ByteRange %d [%d, %d)>", r.ID, r.Offset, r.Offset+r.Length)
}

// FileBlockHelper partitions content of a given size into fixed-size blocks, the last block may be shorter
type FileBlockHelper struct {
	BlockSize int64
	FileSize  int64
}

// NewFileBlockHelperForStreams returns a helper that splits the content into at most the given number of blocks
func NewFileBlockHelperForStreams(fileSize int64, streams int) *FileBlockHelper {
	if streams < 1 {
		streams = 1
	}

	blockSize := fileSize / int64(streams)
	if fileSize%int64(streams) != 0 {
		blockSize++
	}

	if blockSize < 1 {
		blockSize = 1
	}

	return &FileBlockHelper{
		BlockSize: blockSize,
		FileSize:  fileSize,
	}
}

// GetBlockNum returns the number of blocks
func (helper *FileBlockHelper) GetBlockNum() int {
	if helper.FileSize <= 0 {
		return 0
	}

	blockNum := helper.FileSize / helper.BlockSize
	if helper.FileSize%helper.BlockSize != 0 {
		blockNum++
	}
	return int(blockNum)
}

// GetBlockIDForOffset returns block index
func (helper *FileBlockHelper) GetBlockIDForOffset(offset int64) BlockID {
	return BlockID(offset / helper.BlockSize)
}

// GetBlockStartOffsetForBlockID returns block start offset
func (helper *FileBlockHelper) GetBlockStartOffsetForBlockID(blockID BlockID) int64 {
	return int64(blockID) * helper.BlockSize
}

// GetBlockSizeForBlockID returns block size, 0 for blocks past the end
func (helper *FileBlockHelper) GetBlockSizeForBlockID(blockID BlockID) int64 {
	remaining := helper.FileSize - helper.GetBlockStartOffsetForBlockID(blockID)
	if remaining <= 0 {
		return 0
	}

	if remaining > helper.BlockSize {
		return helper.BlockSize
	}
	return remaining
}

// GetBlockRanges returns all blocks in order
func (helper *FileBlockHelper) GetBlockRanges() []ByteRange {
	blockNum := helper.GetBlockNum()
	ranges := make([]ByteRange, 0, blockNum)

	for i := 0; i < blockNum; i++ {
		blockID := BlockID(i)
		ranges = append(ranges, ByteRange{
			ID:     blockID,
			Offset: helper.GetBlockStartOffsetForBlockID(blockID),
			Length: helper.GetBlockSizeForBlockID(blockID),
		})
	}
	return ranges
}

// SplitByteRange splits a range into chunks of at most chunkSize bytes, chunk IDs keep the range's ID
func SplitByteRange(r ByteRange, chunkSize int64) []ByteRange {
	if chunkSize <= 0 || r.Length <= chunkSize {
		return []ByteRange{r}
	}

	chunks := []ByteRange{}
	for offset := r.Offset; offset < r.Offset+r.Length; offset += chunkSize {
		length := chunkSize
		if offset+length > r.Offset+r.Length {
			length = r.Offset + r.Length - offset
		}

		chunks = append(chunks, ByteRange{
			ID:     r.ID,
			Offset: offset,
			Length: length,
		})
	}
	return chunks
}
