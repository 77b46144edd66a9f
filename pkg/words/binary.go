package words

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Binary dictionary format: 4 byte little-endian entry count header, then
// per entry 2 bytes word length, the word bytes, 4 bytes frequency.

// LoadBinary loads a binary dictionary file into the trie.
func (d *Dictionary) LoadBinary(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Errorf("closing file: %v", err)
		}
	}()

	reader := bufio.NewReader(file)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return err
	}
	log.Debugf("Total entries in binary dictionary: %d", totalEntries)

	count := 0
	for count < int(totalEntries) && !d.Full() {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return err
		}

		var freq uint32
		if err := binary.Read(reader, binary.LittleEndian, &freq); err != nil {
			return err
		}

		if freq == 0 {
			freq = 1
		}
		d.AddWord(string(wordBytes), int(freq))
		count++
	}

	log.Debugf("Loaded %d entries from binary dictionary: %s", count, filename)
	return nil
}

// LoadDir loads every dict_*.bin chunk found in dirPath, in name order.
func (d *Dictionary) LoadDir(dirPath string) error {
	chunks, err := filepath.Glob(filepath.Join(dirPath, "dict_*.bin"))
	if err != nil {
		return err
	}
	sort.Strings(chunks)

	for _, chunk := range chunks {
		if d.Full() {
			log.Debugf("Word cap reached (%d), skipping remaining chunks", d.maxWords)
			break
		}
		if err := d.LoadBinary(chunk); err != nil {
			return err
		}
	}

	if len(chunks) == 0 {
		log.Warnf("No dictionary chunks found in %s", dirPath)
	}
	return nil
}

// SaveBinary exports the trie content to a binary file for persistence.
func (d *Dictionary) SaveBinary(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Errorf("Closing binary file: %v", err)
		}
	}()

	count := 0
	if err := d.trie.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		count++
		return nil
	}); err != nil {
		return err
	}

	writer := bufio.NewWriter(file)
	defer func() {
		if err := writer.Flush(); err != nil {
			log.Errorf("Flushing writer: %v", err)
		}
	}()

	if err := binary.Write(writer, binary.LittleEndian, int32(count)); err != nil {
		return err
	}

	return d.trie.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		word := string(prefix)

		if err := binary.Write(writer, binary.LittleEndian, uint16(len(word))); err != nil {
			return err
		}
		if _, err := writer.WriteString(word); err != nil {
			return err
		}

		freq := uint32(0)
		if f, ok := item.(int); ok {
			freq = uint32(f)
		}
		return binary.Write(writer, binary.LittleEndian, freq)
	})
}
