// Package dictionary reads word lists from disk and feeds them into a completer.
package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
)

// WordSink receives words read by a Loader.
type WordSink interface {
	AddWord(word string) error
}

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ID        int
	Filename  string
	WordCount int
}

// LoadStats counts what a load did.
type LoadStats struct {
	Files   int
	Added   int
	Skipped int
}

func (s *LoadStats) add(o LoadStats) {
	s.Files += o.Files
	s.Added += o.Added
	s.Skipped += o.Skipped
}

// Loader reads text and chunk word lists into a WordSink.
type Loader struct {
	sink WordSink
}

func NewLoader(sink WordSink) *Loader {
	return &Loader{sink: sink}
}

// LoadPath loads a single file, or every word list in a directory.
func (l *Loader) LoadPath(path string) (LoadStats, error) {
	info, err := os.Stat(path)
	if err != nil {
		return LoadStats{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return l.LoadDir(path)
	}
	return l.LoadFile(path)
}

// LoadDir loads all dict_*.bin chunks in id order, then all *.txt files in
// name order.
func (l *Loader) LoadDir(dirPath string) (LoadStats, error) {
	var total LoadStats

	chunks, err := GetAvailableChunks(dirPath)
	if err != nil {
		return total, err
	}
	texts, err := filepath.Glob(filepath.Join(dirPath, "*.txt"))
	if err != nil {
		return total, fmt.Errorf("failed to scan for text files: %w", err)
	}
	sort.Strings(texts)

	if len(chunks) == 0 && len(texts) == 0 {
		return total, fmt.Errorf("no word lists found in %s", dirPath)
	}
	log.Debugf("Found %d chunk files and %d text files in %s", len(chunks), len(texts), dirPath)

	for _, chunk := range chunks {
		stats, err := l.LoadFile(chunk.Filename)
		if err != nil {
			return total, err
		}
		total.add(stats)
	}
	for _, file := range texts {
		stats, err := l.LoadFile(file)
		if err != nil {
			return total, err
		}
		total.add(stats)
	}
	return total, nil
}

// LoadFile loads one word list, picking the reader by format.
func (l *Loader) LoadFile(filename string) (LoadStats, error) {
	format, err := DetectFileFormat(filename)
	if err != nil {
		return LoadStats{}, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return LoadStats{}, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	var stats LoadStats
	switch format {
	case FormatChunk:
		stats, err = l.LoadChunk(file)
	case FormatText:
		stats, err = l.LoadText(file)
	}
	if err != nil {
		return stats, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	stats.Files = 1
	log.Debugf("Loaded %s: %d words added, %d skipped", filename, stats.Added, stats.Skipped)
	return stats, nil
}

// LoadText reads one word per line. Blank lines and lines starting with '#'
// are ignored. Lines have no length limit; words longer than maxWordLen are
// skipped like any other rejected word.
func (l *Loader) LoadText(r io.Reader) (LoadStats, error) {
	var stats LoadStats
	reader := bufio.NewReader(r)
	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return stats, fmt.Errorf("failed to read word list: %w", readErr)
		}
		word := strings.TrimSpace(line)
		switch {
		case word == "" || strings.HasPrefix(word, "#"):
		case len(word) > maxWordLen:
			log.Debugf("Skipping word of %d bytes", len(word))
			stats.Skipped++
		default:
			if err := l.add(word, &stats); err != nil {
				return stats, err
			}
		}
		if readErr == io.EOF {
			return stats, nil
		}
	}
}

// LoadChunk reads the chunk format: an int32 word count, then per word a
// uint16 length, the word bytes and a uint16 rank, all little-endian.
// Ranks are read and discarded.
func (l *Loader) LoadChunk(r io.Reader) (LoadStats, error) {
	var stats LoadStats
	reader := bufio.NewReader(r)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return stats, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if totalEntries < 0 || totalEntries > maxChunkWords {
		return stats, fmt.Errorf("invalid chunk word count %d", totalEntries)
	}

	for count := 0; count < int(totalEntries); count++ {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if errors.Is(err, io.EOF) {
				log.Warnf("Chunk truncated after %d of %d words", count, totalEntries)
				break
			}
			return stats, fmt.Errorf("failed to read word length: %w", err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return stats, fmt.Errorf("failed to read word: %w", err)
		}

		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return stats, fmt.Errorf("failed to read rank: %w", err)
		}

		if err := l.add(string(wordBytes), &stats); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// add inserts one word. Invalid words are skipped, any other sink error aborts.
func (l *Loader) add(word string, stats *LoadStats) error {
	if err := l.sink.AddWord(word); err != nil {
		if errors.Is(err, trie.ErrInvalidCharacter) {
			log.Debugf("Skipping word: %v", err)
			stats.Skipped++
			return nil
		}
		return err
	}
	stats.Added++
	return nil
}

// GetAvailableChunks scans the directory for dict_NNNN.bin files, sorted by id
func GetAvailableChunks(dirPath string) ([]ChunkInfo, error) {
	pattern := filepath.Join(dirPath, "dict_*.bin")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			log.Debugf("Ignoring chunk file with bad id: %s", file)
			continue
		}
		wordCount, err := chunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
			wordCount = 0
		}
		chunks = append(chunks, ChunkInfo{
			ID:        chunkID,
			Filename:  file,
			WordCount: wordCount,
		})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ID < chunks[j].ID
	})
	return chunks, nil
}

// chunkWordCount reads the word count from a chunk file's header
func chunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return 0, err
	}
	return int(wordCount), nil
}

// WriteChunk writes words in the chunk format, ranking them by position.
func WriteChunk(w io.Writer, words []string) error {
	if len(words) > maxChunkWords {
		return fmt.Errorf("too many words for one chunk: %d", len(words))
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(len(words))); err != nil {
		return err
	}
	for i, word := range words {
		if len(word) > maxWordLen {
			return fmt.Errorf("word %d is too long (%d bytes)", i, len(word))
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(word))); err != nil {
			return err
		}
		if _, err := bw.WriteString(word); err != nil {
			return err
		}
		rank := uint16(min(i+1, math.MaxUint16))
		if err := binary.Write(bw, binary.LittleEndian, rank); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteChunkFile writes words to dir/dict_NNNN.bin.
func WriteChunkFile(dirPath string, id int, words []string) (string, error) {
	filename := filepath.Join(dirPath, fmt.Sprintf("dict_%04d.bin", id))
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to create chunk file %s: %w", filename, err)
	}

	if err := WriteChunk(file, words); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to write chunk file %s: %w", filename, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close chunk file %s: %w", filename, err)
	}
	return filename, nil
}
