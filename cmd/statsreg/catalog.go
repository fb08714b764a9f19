// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/statsreg/catalog"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var listGroup string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "inspect a statistics catalogue",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "list the statistics of a namespace in report order",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var catalogGroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "list the statistics groups and their prefixes",
	Args:  cobra.NoArgs,
	RunE:  runCatalogGroups,
}

var catalogLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "check the catalogue against its authoring conventions",
	Args:  cobra.NoArgs,
	RunE:  runCatalogLint,
}

func init() {
	catalogCmd.AddCommand(catalogListCmd, catalogGroupsCmd, catalogLintCmd)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	ns, err := catalog.ParseNamespace(namespace)
	if err != nil {
		return err
	}
	cats, err := loadCatalogs()
	if err != nil {
		return err
	}
	c := cats.Catalog(ns)
	var members []string
	if listGroup != "" {
		if members, err = c.MembersOf(listGroup); err != nil {
			return err
		}
	}

	tbl := tablewriter.NewWriter(cmd.OutOrStdout())
	tbl.SetHeader([]string{"Name", "Description", "Flags", "User facing"})
	tbl.SetAlignment(tablewriter.ALIGN_LEFT)
	var n int
	for _, d := range c.Definitions() {
		if listGroup != "" && !slices.Contains(members, d.Prefix) {
			continue
		}
		userFacing := ""
		if d.UserFacing {
			userFacing = "yes"
		}
		tbl.Append([]string{d.Name, d.Desc, d.Flags.String(), userFacing})
		n++
	}
	tbl.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "%d %s statistics\n", n, ns)
	return nil
}

func runCatalogGroups(cmd *cobra.Command, args []string) error {
	cats, err := loadCatalogs()
	if err != nil {
		return err
	}
	for _, name := range cats.Groups.Names() {
		members, _ := cats.Groups.MembersOf(name)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, strings.Join(members, ", "))
	}
	return nil
}

func runCatalogLint(cmd *cobra.Command, args []string) error {
	cats, err := loadCatalogs()
	if err != nil {
		return err
	}
	warnings := cats.Lint()
	for _, w := range warnings {
		fmt.Fprintln(cmd.OutOrStdout(), w)
	}
	if len(warnings) > 0 {
		return errors.Newf("%d lint warnings", len(warnings))
	}
	return nil
}
