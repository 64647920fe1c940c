// FILE: lixenwraith/classconfig/doc.go

// Package classconfig builds configuration objects that back application types.
//
// A configuration embeds Base. Init copies a tree of defaults, merges overrides
// leaf by leaf (a leaf is only replaced by a value of the same kind: number,
// string or bool), and exposes every leaf as a property with an accessor.
// Configure then projects "interface" properties onto the object being
// configured, and Registry remembers which configuration belongs to which
// object without keeping either alive.
//
// Quick Start:
//
//	type ServerConfig struct {
//	    classconfig.Base
//	}
//
//	func NewServerConfig(init any) (*ServerConfig, error) {
//	    c := &ServerConfig{}
//	    defaults := classconfig.Tree{
//	        "port": 8080,
//	        "tls":  map[string]any{"enabled": false, "cert": ""},
//	    }
//	    return c, c.Init(c, defaults, init)
//	}
//
//	func (c *ServerConfig) Interfaces() map[string]classconfig.Descriptor {
//	    return map[string]classconfig.Descriptor{
//	        "port": classconfig.ReadOnly(func() any { v, _ := c.Get("port"); return v }),
//	    }
//	}
//
//	type Server struct {
//	    classconfig.Object
//	}
//
//	cfg, _ := NewServerConfig(map[string]any{"port": 9090})
//	srv := &Server{}
//	_ = cfg.Configure(srv)
//	port, _ := srv.Get("port") // 9090
//
// Accessor kinds:
//   - default: reads the private leaf, ignores writes of another kind
//   - ReadOnly: ignores every write
//   - Writable: passes writes to a function, no type guard
//   - Replaceable: the first write turns the property into a plain value
//   - Method: a fixed value slot, writable and deletable
//
// Overrides can also come from files, environment variables and command-line
// arguments through Builder, with precedence CLI > Env > Init > File > Default.
//
// Configurations are meant for synchronous use. Only Registry is safe for
// concurrent use, because its entries are evicted from the runtime's cleanup goroutine.
package classconfig
