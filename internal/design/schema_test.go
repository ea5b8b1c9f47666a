package design

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

type tag struct {
	key   string
	level int
}

type tagOptions struct {
	Key   *string `json:"key,omitempty"`
	Level *int    `json:"level,omitempty"`
}

type box struct {
	name  string
	width int
	show  YesNo
	inner *box2
	tags  []*tag
}

type boxOptions struct {
	Width *int          `json:"width,omitempty"`
	Show  *YesNo        `json:"show,omitempty"`
	Inner *box2Options  `json:"inner,omitempty"`
	Tags  []*tagOptions `json:"tags,omitempty"`
}

type box2 struct {
	label string
	owner *box
}

type box2Options struct {
	Label *string `json:"label,omitempty"`
}

var (
	tagKey = Scalar("key", "",
		func(t *tag) *string { return &t.key }, func(o *tagOptions) **string { return &o.Key }).Identity()
	tagLevel = Scalar("level", 1,
		func(t *tag) *int { return &t.level }, func(o *tagOptions) **int { return &o.Level }, Range(0, 9))
	tagSchema = NewSchema[tag, tagOptions]("tag", tagKey, tagLevel)

	box2Label  = Scalar("label", "none", func(b *box2) *string { return &b.label }, func(o *box2Options) **string { return &o.Label }, Required)
	box2Schema = NewSchema[box2, box2Options]("inner", box2Label)

	boxName  = Scalar[box, boxOptions]("name", "", func(b *box) *string { return &b.name }, nil).Identity()
	boxWidth = Scalar("width", 10, func(b *box) *int { return &b.width }, func(o *boxOptions) **int { return &o.Width }, AtLeast(1))
	boxShow  = Scalar("show", Yes, func(b *box) *YesNo { return &b.show }, func(o *boxOptions) **YesNo { return &o.Show }, ValidEnum[YesNo])
	boxInner = Child("inner", newBox2, func(b *box) **box2 { return &b.inner }, func(o *boxOptions) **box2Options { return &o.Inner }).
			Attach(func(b *box, c *box2) { c.owner = b })
	boxTags = List("tags", newTag, func(b *box) *[]*tag { return &b.tags }, func(o *boxOptions) *[]*tagOptions { return &o.Tags },
		func(t *tag) string { return t.key },
		func(o *tagOptions) string {
			if o.Key == nil {
				return ""
			}
			return *o.Key
		})
	boxSchema = NewSchema[box, boxOptions]("box", boxName, boxWidth, boxShow, boxInner, boxTags)
)

func newTag() *tag { return tagSchema.New() }
func newBox2() *box2 { return box2Schema.New() }
func newBox() *box { return boxSchema.New() }

func (t *tag) IsDefault() bool { return tagSchema.IsDefault(t) }
func (t *tag) Clone() *tag { return tagSchema.Clone(t) }
func (t *tag) Combine(ref *tag) { tagSchema.Combine(t, ref) }
func (t *tag) ApplyOptions(o *tagOptions) error { return tagSchema.Apply(t, o) }
func (t *tag) MarshalJSON() ([]byte, error) { return tagSchema.Encode(t) }
func (t *tag) UnmarshalJSON(d []byte) error { return tagSchema.Decode(t, d) }
func (o *tagOptions) IsDefault() bool { return tagSchema.OptionsDefault(o) }
func (o *tagOptions) Clone() *tagOptions { return tagSchema.CloneOptions(o) }
func (o *tagOptions) Validate() error { return tagSchema.ValidateOptions(o) }

func (b *box2) IsDefault() bool { return box2Schema.IsDefault(b) }
func (b *box2) Clone() *box2 { return box2Schema.Clone(b) }
func (b *box2) Combine(ref *box2) { box2Schema.Combine(b, ref) }
func (b *box2) ApplyOptions(o *box2Options) error { return box2Schema.Apply(b, o) }
func (b *box2) MarshalJSON() ([]byte, error) { return box2Schema.Encode(b) }
func (b *box2) UnmarshalJSON(d []byte) error { return box2Schema.Decode(b, d) }
func (o *box2Options) IsDefault() bool { return box2Schema.OptionsDefault(o) }
func (o *box2Options) Clone() *box2Options { return box2Schema.CloneOptions(o) }
func (o *box2Options) Validate() error { return box2Schema.ValidateOptions(o) }

func (b *box) IsDefault() bool { return boxSchema.IsDefault(b) }
func (b *box) Clone() *box { return boxSchema.Clone(b) }
func (b *box) Combine(ref *box) { boxSchema.Combine(b, ref) }
func (b *box) ApplyOptions(o *boxOptions) error { return boxSchema.Apply(b, o) }
func (b *box) MarshalJSON() ([]byte, error) { return boxSchema.Encode(b) }
func (b *box) UnmarshalJSON(d []byte) error { return boxSchema.Decode(b, d) }
func (o *boxOptions) IsDefault() bool { return boxSchema.OptionsDefault(o) }
func (o *boxOptions) Clone() *boxOptions { return boxSchema.CloneOptions(o) }
func (o *boxOptions) Validate() error { return boxSchema.ValidateOptions(o) }

func ptr[V any](v V) *V { return &v }

func addTag(t *testing.T, b *box, key string, level int) {
	t.Helper()
	tg := newTag()
	tg.key = key
	if err := tagLevel.Set(tg, level); err != nil {
		t.Fatal(err)
	}
	if err := boxTags.Add(b, tg); err != nil {
		t.Fatal(err)
	}
}

func TestNewIsDefault(t *testing.T) {
	b := newBox()
	if !b.IsDefault() {
		t.Fatal("new box should be default")
	}
	if b.width != 10 || b.show != Yes {
		t.Errorf("defaults not applied: width=%d show=%v", b.width, b.show)
	}
	if b.inner != nil {
		t.Error("child should be created lazily")
	}

	// identity fields do not count
	b.name = "named"
	if !b.IsDefault() {
		t.Error("identity field should not affect IsDefault")
	}

	// a default child created by access is still default
	boxInner.Get(b)
	if !b.IsDefault() {
		t.Error("lazily created default child should keep the node default")
	}
}

func TestSetValidatesBeforeAssigning(t *testing.T) {
	b := newBox()
	err := boxWidth.Set(b, 0)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if b.width != 10 {
		t.Errorf("failed set must not assign, width=%d", b.width)
	}

	err = boxShow.Set(b, YesNo(7))
	if !errors.Is(err, ErrInvalidEnum) {
		t.Fatalf("expected ErrInvalidEnum, got %v", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "show" {
		t.Errorf("expected FieldError for show, got %v", err)
	}

	inner := boxInner.Get(b)
	if err := box2Label.Set(inner, ""); !errors.Is(err, ErrNull) {
		t.Fatalf("expected ErrNull, got %v", err)
	}
	if inner.label != "none" {
		t.Errorf("failed set must not assign, label=%q", inner.label)
	}
}

func TestCombineFillsOnlyDefaults(t *testing.T) {
	dst := newBox()
	dst.name = "dst"
	if err := boxWidth.Set(dst, 5); err != nil {
		t.Fatal(err)
	}
	addTag(t, dst, "a", 3)

	ref := newBox()
	ref.name = "ref"
	if err := boxWidth.Set(ref, 20); err != nil {
		t.Fatal(err)
	}
	if err := boxShow.Set(ref, No); err != nil {
		t.Fatal(err)
	}
	if err := box2Label.Set(boxInner.Get(ref), "from ref"); err != nil {
		t.Fatal(err)
	}
	addTag(t, ref, "a", 9)
	addTag(t, ref, "b", 4)

	dst.Combine(ref)

	if dst.width != 5 {
		t.Errorf("customized width overwritten: %d", dst.width)
	}
	if dst.show != No {
		t.Errorf("default show not filled: %v", dst.show)
	}
	if dst.name != "dst" {
		t.Errorf("identity must not combine: %q", dst.name)
	}
	if got := boxInner.Get(dst).label; got != "from ref" {
		t.Errorf("child not combined: %q", got)
	}
	if boxInner.Get(dst) == boxInner.Get(ref) {
		t.Error("combined child must not be shared with the reference")
	}
	if boxInner.Get(dst).owner != dst {
		t.Error("child created by combine should be attached to dst")
	}

	tags := boxTags.Items(dst)
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}
	if tags[0].level != 3 {
		t.Errorf("paired tag overwritten: %d", tags[0].level)
	}
	if tags[1].key != "b" || tags[1].level != 4 {
		t.Errorf("missing tag not adopted: %+v", tags[1])
	}
	if tags[1] == boxTags.Items(ref)[1] {
		t.Error("adopted tag must be a clone")
	}
}

func TestCombineNilAndSelfClone(t *testing.T) {
	b := newBox()
	if err := boxWidth.Set(b, 3); err != nil {
		t.Fatal(err)
	}
	addTag(t, b, "x", 2)
	before, _ := b.MarshalJSON()

	b.Combine(nil)
	b.Combine(b.Clone())

	after, _ := b.MarshalJSON()
	if string(before) != string(after) {
		t.Errorf("combining with own clone changed the node:\n%s\n%s", before, after)
	}
}

func TestApplyOptions(t *testing.T) {
	b := newBox()
	addTag(t, b, "keep", 2)

	err := b.ApplyOptions(&boxOptions{
		Width: ptr(42),
		Inner: &box2Options{Label: ptr("patched")},
		Tags:  []*tagOptions{{Key: ptr("keep"), Level: ptr(5)}, {Key: ptr("new")}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if b.width != 42 {
		t.Errorf("width = %d, want 42", b.width)
	}
	if b.show != Yes {
		t.Error("unset option must not touch the field")
	}
	if got := boxInner.Get(b).label; got != "patched" {
		t.Errorf("label = %q", got)
	}
	if boxTags.Find(b, "keep").level != 5 {
		t.Error("existing tag not patched")
	}
	if boxTags.Find(b, "new") == nil {
		t.Error("missing tag not created")
	}

	if err := b.ApplyOptions(nil); err != nil {
		t.Errorf("nil options should be a no-op, got %v", err)
	}
	if err := b.ApplyOptions(&boxOptions{}); err != nil {
		t.Errorf("empty options should be a no-op, got %v", err)
	}
}

func TestApplyOptionsIsAtomic(t *testing.T) {
	tests := []struct {
		name string
		opts *boxOptions
		want error
	}{
		{"nested invalid", &boxOptions{Width: ptr(30), Inner: &box2Options{Label: ptr("")}}, ErrNull},
		{"list invalid", &boxOptions{Width: ptr(30), Tags: []*tagOptions{{Key: ptr("a"), Level: ptr(99)}}}, ErrOutOfRange},
		{"list missing key", &boxOptions{Width: ptr(30), Tags: []*tagOptions{{Level: ptr(2)}}}, ErrNull},
		{"list duplicate key", &boxOptions{Width: ptr(30), Tags: []*tagOptions{{Key: ptr("a")}, {Key: ptr("a")}}}, ErrDuplicateKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBox()
			err := b.ApplyOptions(tt.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !b.IsDefault() || len(b.tags) != 0 {
				t.Error("failed apply mutated the node")
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := newBox()
	b.name = "orig"
	if err := box2Label.Set(boxInner.Get(b), "x"); err != nil {
		t.Fatal(err)
	}
	addTag(t, b, "a", 1)

	c := b.Clone()
	if c.name != "orig" {
		t.Error("clone should keep identity")
	}
	if c.inner == b.inner || c.tags[0] == b.tags[0] {
		t.Fatal("clone shares children")
	}
	if c.inner.owner != c {
		t.Error("cloned child should be attached to the clone")
	}

	if err := box2Label.Set(c.inner, "y"); err != nil {
		t.Fatal(err)
	}
	if b.inner.label != "x" {
		t.Error("mutating the clone changed the original")
	}
}

func TestJSONOmitsDefaults(t *testing.T) {
	b := newBox()
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Errorf("default node should encode as {}, got %s", data)
	}

	b.name = "n"
	if err := boxShow.Set(b, No); err != nil {
		t.Fatal(err)
	}
	addTag(t, b, "a", 4)
	data, err = json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"name":"n","show":"No","tags":[{"key":"a","level":4}]}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}

	back := newBox()
	if err := json.Unmarshal(data, back); err != nil {
		t.Fatal(err)
	}
	if back.name != "n" || back.show != No || boxTags.Find(back, "a").level != 4 {
		t.Errorf("decoded node differs: %+v", back)
	}
}

func TestUnmarshalRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"unknown key", `{"height": 3}`, ErrUnknownField},
		{"out of range", `{"width": 0}`, ErrOutOfRange},
		{"bad enum", `{"show": "Maybe"}`, ErrInvalidEnum},
		{"duplicate key", `{"tags": [{"key":"a"},{"key":"a"}]}`, ErrDuplicateKey},
		{"nested null", `{"inner": {"label": ""}}`, ErrNull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := json.Unmarshal([]byte(tt.in), newBox())
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUnmarshalIsAtomic(t *testing.T) {
	b := newBox()
	b.name = "n"
	if err := boxWidth.Set(b, 20); err != nil {
		t.Fatal(err)
	}
	if err := boxShow.Set(b, No); err != nil {
		t.Fatal(err)
	}
	boxInner.Get(b).label = "x"
	addTag(t, b, "a", 4)

	err := json.Unmarshal([]byte(`{"name":"m","show":"Yes","tags":[{"key":"b"}],"inner":{"label":"y"},"width":0}`), b)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if b.name != "n" || b.width != 20 || b.show != No {
		t.Errorf("failed decode changed scalars: %+v", b)
	}
	if b.inner.label != "x" || len(b.tags) != 1 || b.tags[0].key != "a" {
		t.Error("failed decode changed children")
	}

	if err := json.Unmarshal([]byte(`{"inner":{"label":"y"},"tags":[{"key":"c"}]}`), b); err != nil {
		t.Fatal(err)
	}
	if b.width != 10 || b.show != Yes {
		t.Errorf("decode should reset omitted fields: %+v", b)
	}
	if b.inner.label != "y" || b.inner.owner != b {
		t.Error("decoded child not attached to the node")
	}
	if boxTags.Find(b, "c") == nil || boxTags.Find(b, "a") != nil {
		t.Errorf("tags = %v", b.tags)
	}
}

func TestYesNoAcceptsBooleans(t *testing.T) {
	b := newBox()
	if err := json.Unmarshal([]byte(`{"show": false}`), b); err != nil {
		t.Fatal(err)
	}
	if b.show != No {
		t.Errorf("show = %v, want No", b.show)
	}
}

func TestDuplicateFieldPanics(t *testing.T) {
	defer func() {
		r := recover()
		ue, ok := r.(*UsageError)
		if !ok {
			t.Fatalf("expected *UsageError panic, got %v", r)
		}
		if !strings.Contains(ue.Error(), "width") {
			t.Errorf("panic should name the field: %v", ue)
		}
	}()
	NewSchema[box, boxOptions]("dup", boxWidth, boxWidth)
}

func TestEnumParse(t *testing.T) {
	var v YesNo
	if err := v.UnmarshalText([]byte("yes")); err != nil || v != Yes {
		t.Errorf("case-insensitive parse failed: %v %v", v, err)
	}
	if _, err := YesNo(5).MarshalText(); !errors.Is(err, ErrInvalidEnum) {
		t.Errorf("expected ErrInvalidEnum, got %v", err)
	}
	if YesNo(5).String() != "design.YesNo(5)" {
		t.Errorf("unexpected diagnostic: %s", YesNo(5).String())
	}
}
