// Package pkg provides the libraries behind the heatmaps command.
//
// # Overview
//
// heatmaps turns the kill positions hlstats records for each game map into a
// density overlay drawn on the map's overview image. The pkg directory is
// organized leaf first:
//
//  1. [model] - Rows read from the hlstats database (map config, kill events)
//  2. [transform] - World position to base image pixel mapping
//  3. [density] - Density field accumulation and colour rendering
//  4. [composite] - Overlay, crop, thumbnail and PNG encoding
//  5. [store] - Read-only MySQL access through gorm
//  6. [pipeline] - Map builds and batches (load → query → generate → composite → write)
//
// # Architecture
//
// The data flow of one map build:
//
//	hlstats_Heatmap_Config row
//	         ↓
//	    [store] kill events for the map
//	         ↓
//	    [transform] pixel per event
//	         ↓
//	    [density] field rendered to RGBA
//	         ↓
//	    [composite] over the base image, crop, thumbnail
//	         ↓
//	    <web>/hlstatsimg/games/<code>/heatmaps/<map>-kill.png
//
// # Quick Start
//
//	st, err := store.Open(ctx, store.Options{
//	    Host: "localhost", Port: 3306,
//	    User: "hlx", Password: "secret", Database: "hlstats",
//	})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	runner, err := pipeline.NewRunner(st, pipeline.Options{WebPath: "/var/www/hlstats"}, logger)
//	if err != nil {
//	    return err
//	}
//	batch, err := runner.RunBatch(ctx, "insurgency")
//
// # Supporting Packages
//
// [errors] - Coded errors. [errors.IsFatal] separates failures that end the
// batch from failures local to one map.
//
// [observability] - Build and stage hooks for instrumentation.
//
// [buildinfo] - Version information injected at build time.
package pkg
