package transpiler

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/luajs/internal/parser"
)

// translate parses Lua source and runs it through the translator.
func translate(t *testing.T, src string) (string, error) {
	t.Helper()

	block, err := parser.Parse([]byte(src))
	require.NoError(t, err, "source must parse")
	js, err := Translate(block)
	return string(js), err
}

func TestTranslate_Statements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "local declaration",
			input: "local x = 1",
			want:  "var x = 1;\n",
		},
		{
			name:  "local with trailing return",
			input: "local x = 1\nreturn x",
			want:  "var x = 1;\nreturn x;\n",
		},
		{
			name:  "bare return",
			input: "return",
			want:  "return;\n",
		},
		{
			name:  "assignment",
			input: "x = 2",
			want:  "x = 2;\n",
		},
		{
			name:  "index assignment",
			input: "t[1] = 2",
			want:  "(t[1]) = 2;\n",
		},
		{
			name:  "empty statement",
			input: ";",
			want:  ";\n",
		},
		{
			name:  "if else",
			input: "if x > 0 then\n  print(\"pos\")\nelse\n  print(\"neg\")\nend",
			want: "if ((x>0)) {\n" +
				"    print(\"\\x70\\x6f\\x73\");\n" +
				"}\n" +
				"else {\n" +
				"    print(\"\\x6e\\x65\\x67\");\n" +
				"}\n",
		},
		{
			name:  "if elseif",
			input: "if a then x = 1 elseif b then x = 2 end",
			want: "if (a) {\n" +
				"    x = 1;\n" +
				"}\n" +
				"else if (b) {\n" +
				"    x = 2;\n" +
				"}\n",
		},
		{
			name:  "while loop",
			input: "while x do break end",
			want:  "while (x) {\n    break;\n}\n",
		},
		{
			name:  "numeric for without step",
			input: "for i = 1, 10 do print(i) end",
			want: "for (let i = 1, __stop = 10; i <= __stop; i += 1) {\n" +
				"    print(i);\n" +
				"}\n",
		},
		{
			name:  "numeric for with negative step",
			input: "for i = 10, 1, -1 do print(i) end",
			want: "for (let i = 10, __stop = 1, __step = (-1); __step >= 0 ? i <= __stop : i >= __stop; i += __step) {\n" +
				"    print(i);\n" +
				"}\n",
		},
		{
			name:  "do block becomes IIFE",
			input: "do x = 1 end",
			want:  "(function() {\n    x = 1;\n})();\n",
		},
		{
			name:  "call statement",
			input: "f(1, 2)",
			want:  "f(1, 2);\n",
		},
		{
			name:  "method call threads receiver",
			input: "obj:m(1)",
			want:  "obj.m(obj, 1);\n",
		},
		{
			name:  "method call without arguments",
			input: "obj:m()",
			want:  "obj.m(obj);\n",
		},
		{
			name:  "function definition",
			input: "function f(a, b) return a + b end",
			want:  "function f(a, b) {\n    return (a+b);\n}\n",
		},
		{
			name:  "local function becomes arrow",
			input: "local function f(x) return x end",
			want:  "var f = (x) => {\n    return x;\n};\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := translate(t, tt.input)
			require.NoError(t, err, "unexpected translation error")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslate_Expressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"nil", "x = nil", "x = undefined;\n"},
		{"true", "x = true", "x = true;\n"},
		{"false", "x = false", "x = false;\n"},
		{"integer", "x = 100", "x = 100;\n"},
		{"float", "x = 1.5", "x = 1.5;\n"},
		{"fraction", "x = 0.5", "x = 0.5;\n"},
		{"string bytes as hex escapes", `x = "AB"`, "x = \"\\x41\\x42\";\n"},
		{"empty string", `x = ""`, "x = \"\";\n"},
		{"negation", "x = -y", "x = (-y);\n"},
		{"length", "x = #items", "x = (items.length);\n"},
		{"addition", "x = a + b", "x = (a+b);\n"},
		{"subtraction", "x = a - b", "x = (a-b);\n"},
		{"multiplication", "x = a * b", "x = (a*b);\n"},
		{"division", "x = a / b", "x = (a/b);\n"},
		{"floor division maps to division", "x = a // b", "x = (a/b);\n"},
		{"modulo", "x = a % b", "x = (a%b);\n"},
		{"concat maps to plus", `x = "a" .. "b"`, "x = (\"\\x61\"+\"\\x62\");\n"},
		{"equality is strict", "x = a == b", "x = (a===b);\n"},
		{"inequality is strict", "x = a ~= b", "x = (a!==b);\n"},
		{"less than", "x = a < b", "x = (a<b);\n"},
		{"less or equal", "x = a <= b", "x = (a<=b);\n"},
		{"greater than", "x = a > b", "x = (a>b);\n"},
		{"greater or equal", "x = a >= b", "x = (a>=b);\n"},
		{"nested binary", "x = a + b * c", "x = (a+(b*c));\n"},
		{"index", "x = t[k]", "x = (t[k]);\n"},
		{"dot access", "x = t.k", "x = (t[\"\\x6b\"]);\n"},
		{"call in expression", "x = f(1)", "x = f(1);\n"},
		{"table with name field", "x = {a = 1}", "x = ({\"a\": 1});\n"},
		{"table with key field", `x = {["k"] = 2}`, "x = ({[\"\\x6b\"]: 2});\n"},
		{"empty table", "x = {}", "x = ({});\n"},
		{
			"mixed table",
			`x = {a = 1, ["b"] = 2}`,
			"x = ({\"a\": 1, [\"\\x62\"]: 2});\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := translate(t, tt.input)
			require.NoError(t, err, "unexpected translation error")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslate_Nesting(t *testing.T) {
	input := `
if a then
  if b then
    if c then
      x = 1
    end
  end
end`

	got, err := translate(t, input)
	require.NoError(t, err)

	want := "if (a) {\n" +
		"    if (b) {\n" +
		"        if (c) {\n" +
		"            x = 1;\n" +
		"        }\n" +
		"    }\n" +
		"}\n"
	assert.Equal(t, want, got)
}

func TestTranslate_SiblingIndentation(t *testing.T) {
	// Indentation must reset between sibling blocks instead of accumulating.
	input := `
while a do
  x = 1
end
while b do
  y = 2
end`

	got, err := translate(t, input)
	require.NoError(t, err)

	want := "while (a) {\n" +
		"    x = 1;\n" +
		"}\n" +
		"while (b) {\n" +
		"    y = 2;\n" +
		"}\n"
	assert.Equal(t, want, got)
}

func TestTranslate_NestedNumericFor(t *testing.T) {
	// Each loop must declare its own block-scoped bindings; a shared
	// function-scoped __stop would let the inner loop clobber the outer
	// loop's bound and end it early.
	input := `
for i = 1, 3 do
  for j = 1, 2 do
    count = count + 1
  end
end`

	got, err := translate(t, input)
	require.NoError(t, err)

	want := "for (let i = 1, __stop = 3; i <= __stop; i += 1) {\n" +
		"    for (let j = 1, __stop = 2; j <= __stop; j += 1) {\n" +
		"        count = (count+1);\n" +
		"    }\n" +
		"}\n"
	assert.Equal(t, want, got)
}

func TestTranslate_NestedNumericFor_Executes(t *testing.T) {
	node, err := exec.LookPath("node")
	if err != nil {
		t.Skip("node not installed")
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name: "inner loop keeps its own bound",
			input: `
count = 0
for i = 1, 3 do
  for j = 1, 2 do
    count = count + 1
  end
end`,
			want: "6",
		},
		{
			name: "shadowed loop variable stays independent",
			input: `
count = 0
for i = 1, 2 do
  for i = 1, 3 do
    count = count + 1
  end
end`,
			want: "6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			js, err := translate(t, tt.input)
			require.NoError(t, err)

			out, err := exec.Command(node, "-e", js+"console.log(count);").Output()
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(string(out)))
		})
	}
}

func TestTranslate_UnsupportedConstructs(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"parallel assignment", "a, b = 1, 2"},
		{"multiple declaration targets", "local a, b = 1"},
		{"multiple declaration values", "local x = 1, 2"},
		{"local without initializer", "local x"},
		{"multiple return values", "return 1, 2"},
		{"repeat until", "repeat x = 1 until x"},
		{"generic for", "for k, v in pairs(t) do print(k) end"},
		{"goto", "goto done"},
		{"label", "::done::"},
		{"dotted function name", "function a.b() end"},
		{"method definition", "function a:m() end"},
		{"vararg parameters", "function f(...) end"},
		{"vararg local function", "local function f(...) end"},
		{"anonymous function expression", "x = function() end"},
		{"vararg expression", "f(...)"},
		{"positional table field", "x = {1, 2}"},
		{"logical and", "x = a and b"},
		{"logical or", "x = a or b"},
		{"power operator", "x = a ^ b"},
		{"bitwise and", "x = a & b"},
		{"shift", "x = a << 1"},
		{"not operator", "x = not a"},
		{"bitwise not", "x = ~a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := translate(t, tt.input)
			require.Error(t, err, "expected a translation error")

			var unsupportedErr *UnsupportedConstructError
			require.ErrorAs(t, err, &unsupportedErr)
			assert.NotEmpty(t, unsupportedErr.Construct)
			assert.True(t, unsupportedErr.Pos.IsValid(), "error should carry a position")
		})
	}
}

func TestTranslate_IllegalIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"read", "x = this"},
		{"assign", "this = 1"},
		{"call receiver", "this:m()"},
		{"argument", "f(this)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := translate(t, tt.input)
			require.Error(t, err, "expected a translation error")

			var illegalErr *IllegalIdentifierError
			require.ErrorAs(t, err, &illegalErr)
			assert.Equal(t, "this", illegalErr.Name)
		})
	}
}

func TestTranslate_NoPartialOutput(t *testing.T) {
	// A failure deep inside the tree must not leak output written before it.
	input := "x = 1\ny = 2\nreturn 1, 2"

	block, err := parser.Parse([]byte(input))
	require.NoError(t, err)

	js, err := Translate(block)
	require.Error(t, err)
	assert.Nil(t, js, "failed translation must not return output")
}

func TestTranslate_OutputIsValidJavaScript(t *testing.T) {
	sources := []struct {
		name  string
		input string
	}{
		{
			name: "dns zone script",
			input: `
local ttl = 300
local name = "example.com"

function records(zone)
  if ttl > 60 then
    zone:add({kind = "A", target = "10.0.0.1"})
  else
    zone:add({kind = "CNAME", target = name})
  end
end

for i = 1, 3 do
  register("host" .. i)
end

records(D)`,
		},
		{
			name: "loops and scopes",
			input: `
local count = 0
while count < 10 do
  count = count + 1
  if count % 2 == 0 then
    skip(count)
  end
end
do
  local hidden = true
  reveal(hidden)
end
for i = 10, 0, -2 do
  step(i)
end`,
		},
	}

	for _, tt := range sources {
		t.Run(tt.name, func(t *testing.T) {
			js, err := translate(t, tt.input)
			require.NoError(t, err, "unexpected translation error")

			result := api.Transform(js, api.TransformOptions{Loader: api.LoaderJS})
			for _, msg := range result.Errors {
				t.Errorf("emitted invalid JavaScript: %s (line %d)", msg.Text, msg.Location.Line)
			}
			if t.Failed() {
				t.Logf("output:\n%s", js)
			}
		})
	}
}

func TestStringLiteral(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
		want  string
	}{
		{"empty", nil, `""`},
		{"ascii", []byte("ok"), `"\x6f\x6b"`},
		{"single digit bytes pad to two", []byte{0x01, 0x0a}, `"\x01\x0a"`},
		{"high bytes", []byte{0xff, 0x80}, `"\xff\x80"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stringLiteral(tt.value))
		})
	}
}

func TestTranslate_StringRoundTrip(t *testing.T) {
	// Decoding the emitted hex escapes must reproduce the source bytes.
	raw := []byte("dnscontrol \x00\x7f\xff bytes")
	lit := stringLiteral(raw)

	require.True(t, strings.HasPrefix(lit, `"`) && strings.HasSuffix(lit, `"`))
	body := lit[1 : len(lit)-1]

	var decoded []byte
	for len(body) > 0 {
		require.True(t, strings.HasPrefix(body, `\x`), "expected hex escape, got %q", body)
		require.GreaterOrEqual(t, len(body), 4)
		var b byte
		for _, c := range []byte(body[2:4]) {
			switch {
			case '0' <= c && c <= '9':
				b = b<<4 | (c - '0')
			case 'a' <= c && c <= 'f':
				b = b<<4 | (c - 'a' + 10)
			default:
				t.Fatalf("invalid hex digit %q", c)
			}
		}
		decoded = append(decoded, b)
		body = body[4:]
	}

	assert.Equal(t, raw, decoded)
}
