/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  backing.go - Vista de sols lectura de la imatge descodificada. La
 *               capa d'overlay es combina amb aquesta vista en cada
 *               consulta.
 */

package vfs

import (
  "github.com/adriagipas/ctrvfs/utils"
)


/*********/
/* TIPUS */
/*********/

// Contingut d'un directori. Els noms conserven el cas original.
type dirListing struct {

  dirs  []string
  files []string

}

// Resultat de resoldre un path en la vista de la imatge.
type node struct {

  isDir bool

  // Fitxers.
  acc utils.Accessor

  // Directoris.
  listing dirListing

}

// Vista descodificada de la imatge. Les implementacions són pures:
// no guarden estat de les consultes.
type backingFS interface {

  // Resol un path normalitzat. Si no apunta a res torna un error
  // que embolcalla ErrNotFound.
  resolve(segs []string) (*node,error)

  // Indica si té sentit crear un directori en aquest path. Dins
  // d'un ExeFS, per exemple, no en té.
  mkdirAllowed(segs []string) bool

}


/************/
/* FUNCIONS */
/************/

func newFileNode( acc utils.Accessor ) *node {
  return &node{
    isDir: false,
    acc: acc,
  }
} // end newFileNode


func newDirNode( listing dirListing ) *node {
  return &node{
    isDir: true,
    listing: listing,
  }
} // end newDirNode


// Cerca un nom en una llista sense distingir majúscules ASCII.
func containsFold( names []string, name string ) bool {

  for _,n:= range names {
    if foldEqual ( n, name ) { return true }
  }

  return false

} // end containsFold
