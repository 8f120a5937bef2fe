package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"jotunheim-weather/internal/domain"
)

const (
	MagicHeader string = `WWFC` // 4 байта
	Version1    uint32 = 1

	// FileExt расширение файлов снапшотов прогноза
	FileExt = ".wwf"
)

// SnapshotFileHeader - точное представление заголовка файла.
// binary.Write пишет его целиком: тут нет слайсов и строк, только массивы и числа.
type SnapshotFileHeader struct {
	Magic       [4]byte // 4 байта
	Version     uint32  // 4 байта
	Seed        uint32  // 4 байта
	EpochOffset int64   // 8 байт
	BiomeCount  uint8   // 1 байт
	LabelCount  uint16  // 2 байта
	EntryCount  int32   // 4 байта
}

// EntryHeader - фиксированная часть записи одного погодного периода.
// За ней идут BiomeCount индексов uint16 в словарь меток.
type EntryHeader struct {
	Tick         int64   // 8
	WeatherIndex int64   // 8
	Intro        uint8   // 1
	WindAngle    float64 // 8
	WindStrength float64 // 8
}

type SnapshotService struct {
	SaveDir string
}

func NewSnapshotService(dir string) (*SnapshotService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &SnapshotService{SaveDir: dir}, nil
}

// FileName имя файла снапшота по сиду и первому тику.
func FileName(snap *domain.ForecastSnapshot) string {
	var from int64
	if len(snap.Entries) > 0 {
		from = snap.Entries[0].Tick
	}
	return fmt.Sprintf("forecast_%d_%d%s", snap.Seed, from, FileExt)
}

// Save пишет снапшот в SaveDir и возвращает путь к файлу.
func (s *SnapshotService) Save(snap *domain.ForecastSnapshot) (string, error) {
	path := filepath.Join(s.SaveDir, FileName(snap))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := Write(bw, snap); err != nil {
		return "", err
	}
	if err := bw.Flush(); err != nil {
		return "", err
	}
	return path, f.Close()
}

// Write сериализует снапшот в w (little-endian).
func Write(w io.Writer, snap *domain.ForecastSnapshot) error {
	if len(snap.Biomes) > 255 {
		return fmt.Errorf("too many biomes: %d", len(snap.Biomes))
	}
	if len(snap.Entries) > domain.MaxForecastPeriods {
		return fmt.Errorf("too many entries: %d (limit %d)", len(snap.Entries), domain.MaxForecastPeriods)
	}

	// Словарь меток: каждая метка пишется один раз, записи ссылаются на индекс
	labels, index := buildDictionary(snap)
	if len(labels) > 65535 {
		return fmt.Errorf("too many weather labels: %d", len(labels))
	}

	header := SnapshotFileHeader{
		Version:     Version1,
		Seed:        snap.Seed,
		EpochOffset: snap.EpochOffset,
		BiomeCount:  uint8(len(snap.Biomes)),
		LabelCount:  uint16(len(labels)),
		EntryCount:  int32(len(snap.Entries)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, b := range snap.Biomes {
		if err := writeString(w, string(b)); err != nil {
			return fmt.Errorf("biome %s: %w", b, err)
		}
	}
	for _, l := range labels {
		if err := writeString(w, l); err != nil {
			return fmt.Errorf("label %s: %w", l, err)
		}
	}

	refs := make([]uint16, len(snap.Biomes))
	for _, e := range snap.Entries {
		if len(e.Weathers) != len(snap.Biomes) {
			return fmt.Errorf("period %d: %d weathers for %d biomes", e.WeatherIndex, len(e.Weathers), len(snap.Biomes))
		}

		eh := EntryHeader{
			Tick:         e.Tick,
			WeatherIndex: e.WeatherIndex,
			WindAngle:    e.Wind.Angle,
			WindStrength: e.Wind.Intensity,
		}
		if e.Intro {
			eh.Intro = 1
		}
		if err := binary.Write(w, binary.LittleEndian, &eh); err != nil {
			return err
		}

		for i, l := range e.Weathers {
			refs[i] = index[l]
		}
		if err := binary.Write(w, binary.LittleEndian, refs); err != nil {
			return err
		}
	}

	return nil
}

func buildDictionary(snap *domain.ForecastSnapshot) ([]string, map[string]uint16) {
	var labels []string
	index := make(map[string]uint16)
	for _, e := range snap.Entries {
		for _, l := range e.Weathers {
			if _, ok := index[l]; !ok {
				index[l] = uint16(len(labels))
				labels = append(labels, l)
			}
		}
	}
	return labels, index
}

func writeString(w io.Writer, s string) error {
	if len(s) > 255 {
		return fmt.Errorf("string too long: %d", len(s))
	}
	if _, err := w.Write([]byte{uint8(len(s))}); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}
