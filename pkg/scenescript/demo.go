package scenescript

import "github.com/aTanguay/scalerender/pkg/scene"

// DemoScript is the built-in product catalog used when no scene script is
// given. It covers the paths worth demoing: composed solids, a helper part,
// a group with its own light, and a group outside the render prefix.
const DemoScript = `;; Demo product catalog. Units are meters.
(world :unit-scale 1.0)

(group "RENDER_mug"
  (part "body"
    (union (cylinder 0.095 0.04)
           (move (box 0.02 0.012 0.06) 0.048 0 0)))
  (part "_turntable" (cylinder 0.004 0.09) (at 0 0 -0.05)))

(group "RENDER_bottle"
  (part "body" (cylinder 0.21 0.033))
  (part "neck" (cylinder 0.07 0.012) (at 0 0 0.13))
  (part "cap" (rounded-box 0.03 0.03 0.02 0.004) (at 0 0 0.175)))

(group "RENDER_lamp"
  (part "shade" (sphere 0.11) (scale 0.8))
  (part "stem" (cylinder 0.3 0.01) (at 0 0 -0.2))
  (light "bulb"))

(group "props"
  (part "pedestal" (box 0.4 0.4 0.04)))
`

// LoadDemo evaluates the built-in demo script.
func LoadDemo() (*scene.World, error) {
	return NewEngine().LoadString(DemoScript)
}
