package filterbank

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gianuzzi/DeepSpyce/pkg/array"
	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
	"github.com/Gianuzzi/DeepSpyce/pkg/fileio"
	"github.com/Gianuzzi/DeepSpyce/pkg/header"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Columns = 4
	return opts
}

func testArray(t *testing.T) *array.Array {
	t.Helper()
	a, err := array.FromIntColumns([][]int64{
		{1, 2, 3},
		{10, 20, 30},
		{100, 200, 300},
		{-1, -2, -3},
	})
	require.NoError(t, err)
	return a
}

func testHeader(t *testing.T, name string) *header.Header {
	t.Helper()
	h, err := header.FromPairs(
		"telescope_id", 1,
		"rawdatafile", name,
		"source_name", "J0437-4715",
		"tsamp", 0.000128,
		"nchans", 4,
	)
	require.NoError(t, err)
	return h
}

func TestWriteRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := testArray(t)
	h := testHeader(t, "obs.fil")
	outfile := filepath.Join(dir, "obs.fil")

	for _, d := range []codec.OrderDirective{codec.OrderKeep, codec.OrderSwap, codec.OrderBig, codec.OrderLittle} {
		opts := testOptions()
		opts.Directive = d

		path, diags, err := Write(a, h, WriteOptions{Options: opts, Outfile: outfile, Overwrite: true})
		require.NoError(t, err)
		assert.Equal(t, outfile, path)
		assert.Empty(t, diags)

		rec, diags, err := Read(path, opts, Both)
		require.NoError(t, err)
		assert.Empty(t, diags)
		assert.Equal(t, "obs.fil", rec.Name)
		assert.True(t, rec.Header.Equal(h))
		assert.True(t, rec.Data.Equal(a), "directive %d: got %v", d, rec.Data.Ints())
	}
}

func TestRead_Selectors(t *testing.T) {
	a := testArray(t)
	h := testHeader(t, "obs.fil")
	opts := testOptions()

	hb, err := header.Encode(h, DefaultTypes(), false)
	require.NoError(t, err)
	b, err := Marshal(a, h, opts)
	require.NoError(t, err)

	t.Run("header only", func(t *testing.T) {
		rec, _, err := ReadFrom(bytes.NewReader(b), opts, HeaderOnly)
		require.NoError(t, err)
		assert.True(t, rec.Header.Equal(h))
		assert.Nil(t, rec.Data)
	})

	t.Run("data only", func(t *testing.T) {
		rec, _, err := ReadFrom(bytes.NewReader(b), opts, DataOnly)
		require.NoError(t, err)
		assert.Nil(t, rec.Header)
		assert.True(t, rec.Data.Equal(a))
	})

	t.Run("skip bytes", func(t *testing.T) {
		rec, diags, err := ReadFrom(bytes.NewReader(b), opts, SkipBytes(int64(len(hb))))
		require.NoError(t, err)
		assert.Empty(t, diags)
		assert.Nil(t, rec.Header)
		assert.True(t, rec.Data.Equal(a))
	})

	t.Run("both", func(t *testing.T) {
		rec, _, err := ReadFrom(bytes.NewReader(b), opts, Both)
		require.NoError(t, err)
		assert.True(t, rec.Header.Equal(h))
		assert.True(t, rec.Data.Equal(a))
	})
}

func TestReadHeader_ReadArray(t *testing.T) {
	dir := t.TempDir()
	a := testArray(t)
	h := testHeader(t, "obs.fil")
	opts := testOptions()

	path, _, err := Write(a, h, WriteOptions{Options: opts, Outfile: filepath.Join(dir, "obs.fil")})
	require.NoError(t, err)

	gotH, _, err := ReadHeader(path, opts)
	require.NoError(t, err)
	assert.True(t, gotH.Equal(h))

	gotA, _, err := ReadArray(path, opts)
	require.NoError(t, err)
	assert.True(t, gotA.Equal(a))
}

func TestWrite_NoOutputName(t *testing.T) {
	h, err := header.FromPairs("telescope_id", 1)
	require.NoError(t, err)

	_, _, err = Write(testArray(t), h, WriteOptions{Options: testOptions()})
	assert.True(t, errors.Is(err, ErrNoOutputName), "err = %v", err)
}

func TestWrite_NameMismatch(t *testing.T) {
	dir := t.TempDir()
	h := testHeader(t, "x.fil")

	path, diags, err := Write(testArray(t), h, WriteOptions{Options: testOptions(), Outfile: filepath.Join(dir, "y.fil")})
	require.NoError(t, err)
	assert.FileExists(t, path)
	require.Len(t, diags, 1)
	assert.Equal(t, header.NameMismatch, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "y.fil")
	assert.Contains(t, diags[0].Message, "x.fil")
}

func TestWrite_MissingNameWithOutfile(t *testing.T) {
	dir := t.TempDir()
	h, err := header.FromPairs("nchans", 4)
	require.NoError(t, err)

	path, diags, err := Write(testArray(t), h, WriteOptions{Options: testOptions(), Outfile: filepath.Join(dir, "y.fil")})
	require.NoError(t, err)
	assert.True(t, header.Has(diags, header.NameMismatch))

	// the header is written as given
	written, _, err := ReadHeader(path, testOptions())
	require.NoError(t, err)
	assert.False(t, written.Has(NameKey))
	assert.False(t, h.Has(NameKey))
}

func TestWrite_NameFromHeader(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(cwd) }()

	path, diags, err := Write(testArray(t), testHeader(t, "named.fil"), WriteOptions{Options: testOptions()})
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, "named.fil", path)
	assert.FileExists(t, filepath.Join(dir, "named.fil"))
}

func TestWrite_Overwrite(t *testing.T) {
	dir := t.TempDir()
	outfile := filepath.Join(dir, "obs.fil")
	require.NoError(t, os.WriteFile(outfile, []byte("existing"), 0600))

	a := testArray(t)
	h := testHeader(t, "obs.fil")

	_, _, err := Write(a, h, WriteOptions{Options: testOptions(), Outfile: outfile})
	assert.True(t, errors.Is(err, fileio.ErrFileExists), "err = %v", err)

	_, _, err = Write(a, h, WriteOptions{Options: testOptions(), Outfile: outfile, Overwrite: true})
	require.NoError(t, err)

	rec, _, err := Read(outfile, testOptions(), Both)
	require.NoError(t, err)
	assert.True(t, rec.Data.Equal(a))
}

func TestRead_MissingStartKeepsEveryPair(t *testing.T) {
	// A header written without sentinels, followed by nothing: every pair
	// survives the recovery path.
	var buf bytes.Buffer
	for _, kv := range []struct {
		key string
		val codec.Value
	}{
		{"nchans", codec.Int(4)},
		{"source_name", codec.Text("crab")},
		{"fch1", codec.Float(1420.5)},
	} {
		k, err := codec.PackText(kv.key, codec.OrderKeep)
		require.NoError(t, err)
		f := DefaultTypes()[kv.key]
		v, err := codec.Pack(kv.val, &f, codec.OrderKeep)
		require.NoError(t, err)
		buf.Write(k)
		buf.Write(v)
	}

	rec, diags, err := ReadFrom(bytes.NewReader(buf.Bytes()), testOptions(), HeaderOnly)
	require.NoError(t, err)
	assert.True(t, header.Has(diags, header.MissingStartSentinel))
	assert.Equal(t, []string{"nchans", "source_name", "fch1"}, rec.Header.Keys())

	v, _ := rec.Header.Get("fch1")
	assert.Equal(t, 1420.5, v.Float())
}

func TestRead_TypeOverrides(t *testing.T) {
	opts := testOptions()
	opts.Types = header.TypeMap{"nbeams": codec.IntFormat}

	h, err := header.FromPairs("nbeams", 2)
	require.NoError(t, err)
	b, err := Marshal(testArray(t), h, opts)
	require.NoError(t, err)

	rec, _, err := ReadFrom(bytes.NewReader(b), opts, HeaderOnly)
	require.NoError(t, err)
	v, _ := rec.Header.Get("nbeams")
	assert.Equal(t, codec.KindInteger, v.Kind())
	assert.Equal(t, int64(2), v.Int())

	// the built-in map is untouched by overrides
	_, ok := DefaultTypes()["nbeams"]
	assert.False(t, ok)
}

func TestMarshal_ForcedOrderSwapsHeader(t *testing.T) {
	h := testHeader(t, "obs.fil")
	swapped, err := header.Encode(h, DefaultTypes(), true)
	require.NoError(t, err)

	for _, d := range []codec.OrderDirective{codec.OrderSwap, codec.OrderBig, codec.OrderLittle} {
		opts := testOptions()
		opts.Directive = d
		b, err := Marshal(testArray(t), h, opts)
		require.NoError(t, err)
		assert.Equal(t, swapped, b[:len(swapped)], "directive %d", d)
	}
}

func TestMarshal_Layout(t *testing.T) {
	a := array.Vector(codec.Int64Format, []int64{1, 2})
	opts := DefaultOptions()
	opts.Columns = 1

	h := header.New()
	b, err := Marshal(a, h, opts)
	require.NoError(t, err)

	hb, err := header.Encode(h, nil, false)
	require.NoError(t, err)
	assert.Equal(t, hb, b[:len(hb)])
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 2}, b[len(hb):])
}

// sigprocHeader lays a header out by hand in host order: text as a 4-byte
// length and the bytes, integers as int32, floats as float64.
func sigprocHeader(t *testing.T, kv ...any) []byte {
	t.Helper()
	var buf bytes.Buffer
	text := func(s string) {
		require.NoError(t, binary.Write(&buf, binary.NativeEndian, uint32(len(s))))
		buf.WriteString(s)
	}
	text(header.StartKey)
	for i := 0; i < len(kv); i += 2 {
		text(kv[i].(string))
		switch v := kv[i+1].(type) {
		case int32, float64:
			require.NoError(t, binary.Write(&buf, binary.NativeEndian, v))
		case string:
			text(v)
		default:
			t.Fatalf("unsupported value %T", v)
		}
	}
	text(header.EndKey)
	return buf.Bytes()
}

func TestHeader_SigprocLayout(t *testing.T) {
	raw := sigprocHeader(t,
		"telescope_id", int32(1),
		"nchans", int32(4),
	)
	require.Len(t, raw, 64)

	h, diags, err := header.DecodeBytes(raw, DefaultTypes(), false)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, []string{"telescope_id", "nchans"}, h.Keys())
	nchans, _ := h.Get("nchans")
	assert.Equal(t, int64(4), nchans.Int())

	encoded, err := header.Encode(h, DefaultTypes(), false)
	require.NoError(t, err)
	assert.Equal(t, raw, encoded)

	t.Run("mixed kinds", func(t *testing.T) {
		raw := sigprocHeader(t,
			"rawdatafile", "obs.fil",
			"nbits", int32(8),
			"tsamp", 6.4e-5,
		)
		h, _, err := header.DecodeBytes(raw, DefaultTypes(), false)
		require.NoError(t, err)
		tsamp, _ := h.Get("tsamp")
		assert.Equal(t, 6.4e-5, tsamp.Float())

		encoded, err := header.Encode(h, DefaultTypes(), false)
		require.NoError(t, err)
		assert.Equal(t, raw, encoded)
	})

	t.Run("explicit int64 entry packs as long", func(t *testing.T) {
		types := header.Merge(DefaultTypes(), header.TypeMap{"nbits": codec.MustParseFormat(">i8")})
		h, err := header.FromPairs("nbits", 8)
		require.NoError(t, err)

		b, err := header.Encode(h, types, false)
		require.NoError(t, err)
		key, err := codec.PackText("nbits", codec.OrderKeep)
		require.NoError(t, err)
		at := bytes.Index(b, key) + len(key)
		assert.Equal(t, []byte{0, 0, 0, 8}, b[at:at+4])

		got, _, err := header.DecodeBytes(b, types, false)
		require.NoError(t, err)
		assert.True(t, got.Equal(h))
	})
}

func TestNewHeader(t *testing.T) {
	h, err := header.FromPairs("nchans", 2048, "nbeams", 1)
	require.NoError(t, err)

	fh := NewHeader(h)
	keys := fh.Keys()
	require.Len(t, keys, len(standardKeys)+1)
	assert.Equal(t, "telescope_id", keys[0])
	assert.Equal(t, "nbeams", keys[len(keys)-1])

	v, _ := fh.Get("nchans")
	assert.Equal(t, int64(2048), v.Int())
	v, _ = fh.Get("tsamp")
	assert.True(t, v.IsNull())

	ok, diags := Validate(fh, nil)
	assert.False(t, ok)
	require.Len(t, diags, 1)
	assert.Equal(t, header.UnexpectedKey, diags[0].Kind)
	assert.Equal(t, "nbeams", diags[0].Key)

	ok, _ = Validate(fh, header.TypeMap{"nbeams": codec.IntFormat})
	assert.True(t, ok)
}

func TestDefaultOptions_Fresh(t *testing.T) {
	a := DefaultOptions()
	a.Columns = 1
	a.Types = header.TypeMap{"x": codec.IntFormat}

	b := DefaultOptions()
	assert.Equal(t, DefaultChannels, b.Columns)
	assert.Nil(t, b.Types)
	assert.Equal(t, ">i8", b.Format.String())
}

func TestSelector_String(t *testing.T) {
	assert.Equal(t, "both", Both.String())
	assert.Equal(t, "header", HeaderOnly.String())
	assert.Equal(t, "data", DataOnly.String())
	assert.Equal(t, "data@128", SkipBytes(128).String())
}
