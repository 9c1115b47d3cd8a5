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
 *  nitro_backing.go - Espai de noms dels cartutxos DS: el directori
 *                     data amb l'arbre de la FNT, els directoris
 *                     overlay i overlay7, i els fitxers màgics
 *                     arm9.bin, arm7.bin, header.bin, y9.bin i
 *                     y7.bin.
 */

package vfs

import (
  "fmt"

  "github.com/adriagipas/ctrvfs/nitro"
  "github.com/adriagipas/ctrvfs/utils"
)


/*********/
/* TIPUS */
/*********/

type nitroBacking struct {
  nds *nitro.NDS
}


/************/
/* FUNCIONS */
/************/

func newNitroBacking( nds *nitro.NDS ) *nitroBacking {
  return &nitroBacking{
    nds: nds,
  }
} // end newNitroBacking


func overlayFileName( ov *nitro.NDS_Overlay ) string {
  return fmt.Sprintf ( "overlay_%04d.bin", ov.OverlayID )
} // end overlayFileName


func (self *nitroBacking) rootListing() (*node,error) {

  var ret dirListing

  ret.dirs= append(ret.dirs,"data")
  if len(self.nds.Overlay9) > 0 {
    ret.dirs= append(ret.dirs,"overlay")
  }
  if len(self.nds.Overlay7) > 0 {
    ret.dirs= append(ret.dirs,"overlay7")
  }
  ret.files= append(ret.files,"arm9.bin","arm7.bin","header.bin")
  if self.nds.Header.Arm9Overlay.Size > 0 {
    ret.files= append(ret.files,"y9.bin")
  }
  if self.nds.Header.Arm7Overlay.Size > 0 {
    ret.files= append(ret.files,"y7.bin")
  }

  return newDirNode ( ret ),nil

} // end nitroBacking.rootListing


// Resol un path dins de l'arbre de la FNT.
func (self *nitroBacking) resolveData( segs []string ) (*node,error) {

  dir:= self.nds.FNT.Dir ( 0 )
  for i:= 1; i < len(segs); i++ {

    var next *nitro.FNT_Directory
    for j:= range dir.Entries {
      e:= &dir.Entries[j]
      if !foldEqual ( e.Name, segs[i] ) { continue }
      if e.IsDir {
        next= self.nds.FNT.Dir ( e.ID )
        break
      } else if i == len(segs)-1 {
        acc,err:= self.nds.OpenFile ( e.ID )
        if err != nil { return nil,err }
        return newFileNode ( acc ),nil
      } else {
        return nil,notFound ( segs )
      }
    }
    if next == nil { return nil,notFound ( segs ) }
    dir= next

  }

  // És un directori.
  var ret dirListing
  for j:= range dir.Entries {
    e:= &dir.Entries[j]
    if e.IsDir {
      ret.dirs= append(ret.dirs,e.Name)
    } else {
      ret.files= append(ret.files,e.Name)
    }
  }

  return newDirNode ( ret ),nil

} // end nitroBacking.resolveData


// Resol un path dins d'un directori d'overlays.
func (self *nitroBacking) resolveOverlays( table []nitro.NDS_Overlay,
  segs []string ) (*node,error) {

  if len(table) == 0 { return nil,notFound ( segs ) }

  if len(segs) == 1 {
    var ret dirListing
    for i:= range table {
      ret.files= append(ret.files,overlayFileName ( &table[i] ))
    }
    return newDirNode ( ret ),nil
  } else if len(segs) == 2 {
    for i:= range table {
      if foldEqual ( overlayFileName ( &table[i] ), segs[1] ) {
        acc,err:= self.nds.OpenOverlay ( &table[i] )
        if err != nil { return nil,err }
        return newFileNode ( acc ),nil
      }
    }
    return nil,notFound ( segs )
  } else {
    return nil,notFound ( segs )
  }

} // end nitroBacking.resolveOverlays


func (self *nitroBacking) resolve( segs []string ) (*node,error) {

  if len(segs) == 0 {
    return self.rootListing ()
  }

  switch toLowerASCII ( segs[0] ) {

  case "data":
    return self.resolveData ( segs )

  case "overlay":
    return self.resolveOverlays ( self.nds.Overlay9, segs )

  case "overlay7":
    return self.resolveOverlays ( self.nds.Overlay7, segs )

  }

  // Fitxers màgics de l'arrel.
  if len(segs) != 1 { return nil,notFound ( segs ) }
  var acc utils.Accessor
  var err error
  switch toLowerASCII ( segs[0] ) {
  case "arm9.bin":
    acc,err= self.nds.Arm9 ()
  case "arm7.bin":
    acc,err= self.nds.Arm7 ()
  case "header.bin":
    acc,err= self.nds.HeaderBytes ()
  case "y9.bin":
    acc,err= self.nds.Y9 ()
  case "y7.bin":
    acc,err= self.nds.Y7 ()
  default:
    return nil,notFound ( segs )
  }
  if err != nil { return nil,err }
  if acc == nil { return nil,notFound ( segs ) }

  return newFileNode ( acc ),nil

} // end nitroBacking.resolve


func (self *nitroBacking) mkdirAllowed( segs []string ) bool {

  if len(segs) == 0 { return false }
  switch toLowerASCII ( segs[0] ) {
  case "data":
    return len(segs) > 1
  case "overlay","overlay7":
    return false
  default:
    return true
  }

} // end nitroBacking.mkdirAllowed
