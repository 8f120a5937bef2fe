package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"jotunheim-weather/internal/domain"
)

// initialEntryCap начальная емкость, дальше растет через append.
const initialEntryCap = 256

// Load читает снапшот с диска.
func (s *SnapshotService) Load(path string) (*domain.ForecastSnapshot, error) {
	return LoadFile(path)
}

// LoadFile читает снапшот по произвольному пути.
func LoadFile(path string) (*domain.ForecastSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(bufio.NewReader(f))
}

// Read десериализует снапшот, записанный Write.
func Read(r io.Reader) (*domain.ForecastSnapshot, error) {
	// 1. Читаем заголовок целиком
	var header SnapshotFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.EntryCount < 0 {
		return nil, fmt.Errorf("negative entry count: %d", header.EntryCount)
	}
	// Счетчик из файла не доверенный: прогноз длиннее лимита Write не пишет
	if header.EntryCount > domain.MaxForecastPeriods {
		return nil, fmt.Errorf("entry count %d exceeds limit %d", header.EntryCount, domain.MaxForecastPeriods)
	}

	snap := &domain.ForecastSnapshot{
		Seed:        header.Seed,
		EpochOffset: header.EpochOffset,
		Biomes:      make([]domain.Biome, header.BiomeCount),
		Entries:     make([]domain.ForecastEntry, 0, min(int(header.EntryCount), initialEntryCap)),
	}

	// 2. Биомы и словарь меток
	for i := range snap.Biomes {
		s, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read biome %d: %w", i, err)
		}
		snap.Biomes[i] = domain.Biome(s)
	}
	labels := make([]string, header.LabelCount)
	for i := range labels {
		s, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read label %d: %w", i, err)
		}
		labels[i] = s
	}

	// 3. Записи
	refs := make([]uint16, header.BiomeCount)
	for i := 0; i < int(header.EntryCount); i++ {
		var eh EntryHeader
		if err := binary.Read(r, binary.LittleEndian, &eh); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, refs); err != nil {
			return nil, fmt.Errorf("entry %d labels: %w", i, err)
		}

		e := domain.ForecastEntry{
			Tick:         eh.Tick,
			WeatherIndex: eh.WeatherIndex,
			Intro:        eh.Intro != 0,
			Wind:         domain.Wind{Angle: eh.WindAngle, Intensity: eh.WindStrength},
			Weathers:     make([]string, len(refs)),
		}
		for j, ref := range refs {
			if int(ref) >= len(labels) {
				return nil, fmt.Errorf("entry %d: label index %d out of range", i, ref)
			}
			e.Weathers[j] = labels[ref]
		}
		snap.Entries = append(snap.Entries, e)
	}

	return snap, nil
}

func readString(r io.Reader) (string, error) {
	var n [1]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return "", err
	}
	buf := make([]byte, n[0])
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
