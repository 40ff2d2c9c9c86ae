package registry

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSnapshot_Dedup(t *testing.T) {
	// Two records with the same prefix: the first occurrence wins.
	dump := dumpHeader + "00-22-72   (hex)\t\tFirst Corp.\n" +
		"002272     (base 16)\t\tFirst Corp.\n" +
		"\t\t\t\tFirst Street 1\n" +
		"\n" +
		"00-22-72   (hex)\t\tSecond Corp.\n" +
		"002272     (base 16)\t\tSecond Corp.\n" +
		"\t\t\t\tSecond Street 2\n"

	snap, err := buildSnapshot(strings.NewReader(dump), time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, snap.Count())

	p, _ := PrefixOf([]byte{0x00, 0x22, 0x72, 0, 0, 0})
	rec, ok := snap.Lookup(p)
	require.True(t, ok)
	assert.Equal(t, "First Corp.", rec.Organization)
	assert.Equal(t, "First Street 1", rec.Address)
}

func TestBuildSnapshot_EmptyIsFormatError(t *testing.T) {
	_, err := buildSnapshot(strings.NewReader(dumpHeader), time.Now())
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
}

func TestStore_LoadLatest_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	seq := time.Now().UnixNano()
	writeEntry(t, dir, seq, sampleDump)

	snap, err := NewStore(nil).LoadLatest(dir)
	require.NoError(t, err)
	assert.True(t, snap.Version().Equal(time.Unix(0, seq)))
	require.Equal(t, 2, snap.Count())

	want, err := buildSnapshot(strings.NewReader(sampleDump), snap.Version())
	require.NoError(t, err)
	for p, rec := range want.All() {
		got, ok := snap.Lookup(p)
		require.True(t, ok, "missing prefix %s", p)
		assert.Equal(t, rec, got)
	}
}

func TestStore_LoadLatest_PicksNewest(t *testing.T) {
	dir := t.TempDir()
	now := time.Now().UnixNano()
	old := dumpHeader + "00-00-0C   (hex)\t\tCisco Systems, Inc\n00000C     (base 16)\t\tCisco Systems, Inc\n"
	writeEntry(t, dir, now-1000, old)
	writeEntry(t, dir, now, sampleDump)

	snap, err := NewStore(nil).LoadLatest(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Count())
}

func TestStore_LoadLatest_NotFound(t *testing.T) {
	_, err := NewStore(nil).LoadLatest(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_LoadLatest_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, time.Now().UnixNano(), "not a registry dump")

	_, err := NewStore(nil).LoadLatest(dir)
	require.Error(t, err)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestStore_LoadEmbedded(t *testing.T) {
	snap, err := NewStore(nil).LoadEmbedded()
	require.NoError(t, err)
	assert.True(t, snap.Version().Equal(embeddedVersion))
	assert.Equal(t, 10, snap.Count())

	p, _ := PrefixOf([]byte{0x64, 0xD1, 0xA3, 0, 0, 0})
	rec, ok := snap.Lookup(p)
	require.True(t, ok)
	assert.Equal(t, "Sitecom Europe BV", rec.Organization)
}
