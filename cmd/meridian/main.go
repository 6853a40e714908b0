package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/acuview/meridian/engine/camera"
	"github.com/acuview/meridian/engine/loader"
	"github.com/acuview/meridian/engine/model"
	"github.com/acuview/meridian/engine/renderer"
	"github.com/acuview/meridian/engine/scene"
	"github.com/acuview/meridian/engine/window"
	"github.com/acuview/meridian/viewer"
)

var (
	modelPath   = flag.String("model", "", "path to the anatomy mesh (.obj)")
	texturePath = flag.String("texture", "", "optional diffuse texture image for the mesh")
	pointsPath  = flag.String("points", "", "optional acupuncture point catalog (.json)")
	listenAddr  = flag.String("listen", "localhost:8090", "sidebar listen address (empty disables the sidebar)")
	frameLimit  = flag.Float64("fps", 0, "render frame cap (0 = uncapped)")
	software    = flag.Bool("software", false, "force the software fallback GPU adapter")
	profile     = flag.Bool("profile", false, "log frame statistics once per second")
)

func main() {
	flag.Parse()
	if *modelPath == "" {
		fmt.Fprintln(os.Stderr, "usage: meridian -model <mesh.obj> [-texture <image>] [-points <catalog.json>] [-listen <addr>]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	win := window.NewWindow(window.WithTitle("Meridian Viewer"))

	cam := camera.NewCamera(
		camera.WithAspect(float32(win.Width()) / float32(win.Height())),
	)
	ctrl := camera.NewOrbitController(cam,
		camera.WithSurface(win),
		camera.WithDamping(0.05),
		camera.WithDistanceBounds(0.2, 50),
	)
	cam.SetController(ctrl)

	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithForceSoftwareRenderer(*software),
	)

	scn := scene.NewScene("anatomy", cam, ctrl, r)

	mdl, err := loadModel()
	if err != nil {
		log.Fatalf("failed to load model: %v", err)
	}
	if err := scn.SetModel(mdl); err != nil {
		log.Fatalf("failed to upload model: %v", err)
	}
	log.Printf("loaded %s: %d vertices", mdl.Name(), mdl.VertexCount())

	options := []viewer.AppBuilderOption{
		viewer.WithRenderFrameLimit(*frameLimit),
	}
	if *pointsPath != "" {
		catalog, err := viewer.LoadCatalog(*pointsPath)
		if err != nil {
			log.Fatalf("failed to load point catalog: %v", err)
		}
		log.Printf("loaded %d points across %d meridians", catalog.Len(), len(catalog.Meridians()))
		options = append(options, viewer.WithCatalog(catalog))
		if *listenAddr != "" {
			options = append(options, viewer.WithRemoteAddr(*listenAddr))
		}
	}
	if *profile {
		options = append(options, viewer.WithProfiling())
	}

	app := viewer.NewApp(win, scn, options...)
	app.Run()
}

func loadModel() (model.Model, error) {
	ldr := loader.NewLoader(loader.BackendTypeOBJ)
	if *texturePath != "" {
		return ldr.LoadWithTexture(*modelPath, *texturePath)
	}
	return ldr.Load(*modelPath)
}
