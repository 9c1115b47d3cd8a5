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
 *  rebuild.go - Reconstrucció de regions ExeFS i RomFS a partir de
 *               l'arbre del VFS. Les lectures passen pel VFS, per la
 *               qual cosa les modificacions de la capa d'overlay
 *               queden incloses en els bytes resultants.
 */

package vfs

import (
  "fmt"

  "github.com/adriagipas/ctrvfs/citrus"
  "github.com/adriagipas/ctrvfs/utils"
)


/************/
/* FUNCIONS */
/************/

// Nom del directori ExeFS de la partició.
func exefsSlotName( ind int ) string {
  if ind == 0 { return "ExeFS" }
  return fmt.Sprintf ( "ExeFS-%d", ind )
} // end exefsSlotName


// Serialitza de nou l'ExeFS de la partició, amb les modificacions de
// la capa d'overlay incloses.
func (self *Rom) RebuildExeFS( ind int ) ([]byte,error) {

  slot:= exefsSlotName ( ind )
  segs:= []string{slot}
  listing,err:= self.listDir ( segs )
  if err != nil { return nil,err }

  files:= make([]citrus.ExeFS_BuildFile,0,len(listing.files))
  for _,name:= range listing.files {
    data,err:= self.ReadAllBytes ( joinAbs ( []string{slot,name} ) )
    if err != nil { return nil,err }
    files= append(files,citrus.ExeFS_BuildFile{
      Name: name,
      Data: data,
    })
  }

  return citrus.BuildExeFS ( files )

} // end RebuildExeFS


// Construeix l'arbre d'un subdirectori per a la reconstrucció.
func (self *Rom) buildRomFSDir( segs []string,
  name string ) (*citrus.RomFS_BuildDir,error) {

  listing,err:= self.listDir ( segs )
  if err != nil { return nil,err }

  ret:= citrus.RomFS_BuildDir{
    Name: name,
  }
  for _,f:= range listing.files {
    data,err:= self.ReadAllBytes (
      joinAbs ( append(append([]string{},segs...),f) ) )
    if err != nil { return nil,err }
    ret.Files= append(ret.Files,&citrus.RomFS_BuildFile{
      Name: f,
      Data: data,
    })
  }
  for _,d:= range listing.dirs {
    child,err:= self.buildRomFSDir (
      append(append([]string{},segs...),d), d )
    if err != nil { return nil,err }
    ret.Dirs= append(ret.Dirs,child)
  }

  return &ret,nil

} // end buildRomFSDir


// Serialitza de nou el RomFS de la partició, amb les modificacions de
// la capa d'overlay incloses. El resultat és canònic: germans
// ordenats i taules de hash recalculades.
func (self *Rom) RebuildRomFS( ind int ) ([]byte,error) {

  dlc:= self.container != nil && self.container.IsDLC
  var slot string
  if self.container != nil {
    slot= romfsDirName ( ind, dlc )
  } else {
    slot= romfsDirName ( ind, false )
  }
  segs:= []string{slot}
  if !self.directoryExists ( segs ) {
    return nil,fmt.Errorf ( "'%s': %w", joinAbs ( segs ),
      utils.ErrNotFound )
  }
  root,err:= self.buildRomFSDir ( segs, "" )
  if err != nil { return nil,err }

  return citrus.BuildRomFS ( root )

} // end RebuildRomFS
