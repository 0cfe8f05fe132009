// Package loader mounts features on the HTTP app.
//
// A Feature owns a group of routes. The Manager keeps features in
// registration order and LoadAll mounts the enabled ones, so cmd/start only
// has to decide which features exist:
//
//	mgr := loader.NewManager(logger)
//	mgr.Register(scenes.NewFeature(svc))
//	mgr.Register(integrity.NewFeature(client, bucket, logger, db, prefix))
//	if err := mgr.LoadAll(app); err != nil {
//	    return err
//	}
package loader
