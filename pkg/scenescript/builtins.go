package scenescript

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/aTanguay/scalerender/pkg/core"
	"github.com/aTanguay/scalerender/pkg/scene"
	"github.com/aTanguay/scalerender/pkg/solids"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix marks keyword arguments after preprocessing.
const kwPrefix = "__kw_"

// preprocess rewrites scene script source into the dialect zygomys accepts:
//
//   - :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbol registration and cannot collide with user variables
//   - ; line comments become // comments (zygomys has no ; comments)
//   - kebab-case identifiers become underscore form (zygomys reads the
//     hyphen as subtraction); keywords keep their hyphens
//
// String literals, both "" and ``, pass through untouched.
func preprocess(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)

	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '"' || c == '`':
			j := skipString(b, i)
			out = append(out, b[i:j]...)
			i = j

		case c == ';':
			for i < len(b) && b[i] == ';' {
				i++
			}
			out = append(out, '/', '/')
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			// Assignment operator, not a keyword.
			out = append(out, ':', '=')
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKeywordChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++

		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// skipString returns the index just past the string literal starting at
// b[start]. Double-quoted strings honor backslash escapes.
func skipString(b []byte, start int) int {
	quote := b[start]
	i := start + 1
	for i < len(b) && b[i] != quote {
		if quote == '"' && b[i] == '\\' && i+1 < len(b) {
			i += 2
			continue
		}
		i++
	}
	if i < len(b) {
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKeywordChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Sexp wrappers for passing scene values between builtins
// ---------------------------------------------------------------------------

type sexpSolid struct {
	solid solids.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	size := s.solid.LocalBox().Size()
	return fmt.Sprintf("(solid %gx%gx%g)", size.X, size.Y, size.Z)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

type opKind int

const (
	opAt opKind = iota
	opRotate
	opScale
)

// sexpOp is a pending transform step produced by (at ...), (rotate ...) or
// (scale ...), applied when the enclosing part is built.
type sexpOp struct {
	kind opKind
	vec  core.Vec3
}

func (o *sexpOp) SexpString(ps *zygo.PrintState) string {
	switch o.kind {
	case opAt:
		return fmt.Sprintf("(at %g %g %g)", o.vec.X, o.vec.Y, o.vec.Z)
	case opRotate:
		return fmt.Sprintf("(rotate %g %g %g)", o.vec.X, o.vec.Y, o.vec.Z)
	default:
		return fmt.Sprintf("(scale %g)", o.vec.X)
	}
}
func (o *sexpOp) Type() *zygo.RegisteredType { return nil }

type sexpPart struct {
	part scene.Part
}

func (p *sexpPart) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %q)", p.part.Kind(), p.part.Name())
}
func (p *sexpPart) Type() *zygo.RegisteredType { return nil }

type sexpGroup struct {
	group *scene.Group
}

func (g *sexpGroup) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(group %q parts=%d)", g.group.Name, len(g.group.Parts))
}
func (g *sexpGroup) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Argument helpers
// ---------------------------------------------------------------------------

// isKW reports whether a Sexp is a preprocessed keyword string and returns
// the keyword name without the prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates a mixed argument list into keyword and positional
// arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); {
		name, ok := isKW(args[i])
		if ok && i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
			continue
		}
		if ok {
			result.kw[name] = zygo.SexpNull
			i++
			continue
		}
		result.positional = append(result.positional, args[i])
		i++
	}
	return result
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// floatArgs extracts exactly want numbers from args.
func floatArgs(form string, args []zygo.Sexp, want int) ([]float64, error) {
	if len(args) != want {
		return nil, fmt.Errorf("%s requires %d numbers, got %d", form, want, len(args))
	}
	vals := make([]float64, want)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", form, i+1, err)
		}
		vals[i] = f
	}
	return vals, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builder accumulates the world a script describes.
type builder struct {
	world *scene.World
}

// registerBuiltins installs the scene builders into a zygomys environment.
// They populate the builder's world during evaluation. Source must go
// through preprocess() first so :keyword tokens are recognizable.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// (world :unit-scale 0.001)
	env.AddFunction("world", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if v, ok := pa.kw["unit-scale"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("world: unit-scale: %w", err)
			}
			if f <= 0 {
				return zygo.SexpNull, fmt.Errorf("world: unit-scale must be positive, got %g", f)
			}
			b.world.UnitScale = f
		}
		return zygo.SexpNull, nil
	})

	// (box width depth height)
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vals, err := floatArgs("box", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := solids.Box(vals[0], vals[1], vals[2])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: s}, nil
	})

	// (rounded-box width depth height round)
	env.AddFunction("rounded_box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vals, err := floatArgs("rounded-box", args, 4)
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := solids.RoundedBox(vals[0], vals[1], vals[2], vals[3])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: s}, nil
	})

	// (cylinder height radius)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vals, err := floatArgs("cylinder", args, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := solids.Cylinder(vals[0], vals[1])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: s}, nil
	})

	// (sphere radius)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vals, err := floatArgs("sphere", args, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := solids.Sphere(vals[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: s}, nil
	})

	// (move SOLID x y z) shifts a solid in its local space, for composing
	// multi-solid parts before union.
	env.AddFunction("move", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("move requires a solid and x y z, got %d arguments", len(args))
		}
		sol, ok := args[0].(*sexpSolid)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("move: expected solid, got %T (%s)", args[0], args[0].SexpString(nil))
		}
		vals, err := floatArgs("move", args[1:], 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		moved := sol.solid.Translate(core.NewVec3(vals[0], vals[1], vals[2]))
		return &sexpSolid{solid: moved}, nil
	})

	// (union SOLID SOLID ...)
	env.AddFunction("union", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("union requires at least 2 solids, got %d", len(args))
		}
		var combined solids.Solid
		for i, a := range args {
			sol, ok := a.(*sexpSolid)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("union: argument %d: expected solid, got %T (%s)", i+1, a, a.SexpString(nil))
			}
			if i == 0 {
				combined = sol.solid
				continue
			}
			combined = combined.Union(sol.solid)
		}
		return &sexpSolid{solid: combined}, nil
	})

	// (at x y z)
	env.AddFunction("at", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vals, err := floatArgs("at", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpOp{kind: opAt, vec: core.NewVec3(vals[0], vals[1], vals[2])}, nil
	})

	// (rotate rx ry rz) in degrees
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vals, err := floatArgs("rotate", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpOp{kind: opRotate, vec: core.NewVec3(vals[0], vals[1], vals[2])}, nil
	})

	// (scale s) uniform
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vals, err := floatArgs("scale", args, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		if vals[0] <= 0 {
			return zygo.SexpNull, fmt.Errorf("scale must be positive, got %g", vals[0])
		}
		return &sexpOp{kind: opScale, vec: core.NewVec3(vals[0], vals[0], vals[0])}, nil
	})

	// (part "name" SOLID [op]...)
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("part requires a name and a solid")
		}
		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}
		sol, ok := args[1].(*sexpSolid)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("part %q: expected solid, got %T (%s)", partName, args[1], args[1].SexpString(nil))
		}

		tr := scene.IdentityTransform()
		for i, a := range args[2:] {
			op, ok := a.(*sexpOp)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("part %q: argument %d: expected at/rotate/scale, got %T (%s)",
					partName, i+3, a, a.SexpString(nil))
			}
			switch op.kind {
			case opAt:
				tr.Translation = op.vec
			case opRotate:
				tr.Rotation = core.EulerFromDegrees(op.vec.X, op.vec.Y, op.vec.Z)
			case opScale:
				tr.Scale = op.vec
			}
		}

		return &sexpPart{part: solids.NewPart(partName, sol.solid, tr)}, nil
	})

	// (light "name")
	env.AddFunction("light", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("light requires a name argument")
		}
		lightName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("light: name: %w", err)
		}
		return &sexpPart{part: scene.NewLightPart(lightName)}, nil
	})

	// (group "name" PART...)
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("group requires a name argument")
		}
		groupName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}

		g := scene.NewGroup(groupName)
		for i := 1; i < len(args); i++ {
			p, ok := args[i].(*sexpPart)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("group %q: entry %d: expected part or light, got %T (%s)",
					groupName, i, args[i], args[i].SexpString(nil))
			}
			g.Add(p.part)
		}

		b.world.Add(g)
		return &sexpGroup{group: g}, nil
	})
}
